package wavmeta

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedContainer is returned when the RIFF structure itself is
	// damaged: wrong magic, a truncated chunk, or a declared size that
	// overruns the container. It is fatal for the file; nothing is
	// repaired or skipped.
	ErrMalformedContainer = errors.New("malformed RIFF container")
	// ErrInvalidNote is returned when a symbolic note name cannot be
	// mapped to a MIDI note number.
	ErrInvalidNote = errors.New("invalid note name")
	// ErrFmtChunkNotFound is returned when an operation needs the fmt
	// chunk and the container has no usable one.
	ErrFmtChunkNotFound = errors.New("fmt chunk not found")

	errFmtZeroRate = errors.New("fmt chunk has a zero sample rate or block align")
)

// Warning reports a recognized metadata chunk whose payload is an
// unsupported layout variant. The chunk passes through byte-for-byte and
// the related tag field is skipped; a warning is never fatal.
type Warning struct {
	ID     [4]byte
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s chunk: %s", chunkIDString(w.ID), w.Detail)
}

func warnf(id [4]byte, format string, args ...any) Warning {
	return Warning{ID: id, Detail: fmt.Sprintf(format, args...)}
}
