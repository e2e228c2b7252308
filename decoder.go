package wavmeta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// DecodeContainer parses a RIFF/WAVE stream into a Container. It is a pure
// parse: chunks are captured verbatim in file order, nothing is repaired,
// skipped or reordered. Unknown chunk IDs are not an error.
//
// Structural damage (wrong magic, truncation, a chunk size overrunning the
// container) is reported as ErrMalformedContainer. Reads stop at the
// declared end of the container; trailing bytes are ignored.
func DecodeContainer(r io.Reader) (*Container, error) {
	parser := riff.New(r)

	id, size, err := parser.IDnSize()
	if err != nil {
		return nil, readErr("RIFF header", err)
	}

	if id != riff.RiffID {
		return nil, fmt.Errorf("%w: %q - %w", ErrMalformedContainer, chunkIDString(id), riff.ErrFmtNotSupported)
	}

	if size < 4 {
		return nil, fmt.Errorf("%w: declared size %d cannot hold the form type", ErrMalformedContainer, size)
	}

	var form [4]byte
	if err := binary.Read(r, binary.BigEndian, &form); err != nil {
		return nil, readErr("form type", err)
	}

	if form != riff.WavFormatID {
		return nil, fmt.Errorf("%w: form %q - %w", ErrMalformedContainer, chunkIDString(form), riff.ErrFmtNotSupported)
	}

	c := &Container{Form: form}

	// The declared outer size covers the form type plus every chunk with
	// its header and pad. Leftovers too small for a chunk header end the
	// parse.
	remaining := int64(size) - 4

	for remaining >= 8 {
		ch, n, err := readChunk(parser, r, remaining-8)
		if err != nil {
			return nil, err
		}

		c.Chunks = append(c.Chunks, ch)
		remaining -= n
	}

	return c, nil
}

// readChunk reads one chunk header, payload and pad byte. The limit is the
// number of bytes left in the container after the 8-byte header; n reports
// the bytes consumed including the header.
func readChunk(parser *riff.Parser, r io.Reader, limit int64) (ch *Chunk, n int64, err error) {
	id, size, err := parser.IDnSize()
	if err != nil {
		return nil, 0, readErr("chunk header", err)
	}

	n = 8

	if int64(size) > limit {
		return nil, n, fmt.Errorf("%w: chunk %q declares %d bytes but only %d remain",
			ErrMalformedContainer, chunkIDString(id), size, limit)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, n, readErr(fmt.Sprintf("chunk %q payload", chunkIDString(id)), err)
	}

	n += int64(size)
	ch = &Chunk{ID: id, Size: size, Data: data}

	if size%2 == 0 {
		return ch, n, nil
	}

	pad := make([]byte, 1)

	switch _, err := io.ReadFull(r, pad); {
	case err == nil:
		ch.Pad = pad
		n++
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if limit-int64(size) > 1 {
			// More chunks were declared after this one.
			return nil, n, fmt.Errorf("%w: truncated after chunk %q", ErrMalformedContainer, chunkIDString(id))
		}
	default:
		return nil, n, fmt.Errorf("failed to read chunk %q pad byte: %w", chunkIDString(id), err)
	}

	return ch, n, nil
}

// readErr folds an EOF inside the declared structure into the malformed
// class; genuine reader failures keep the underlying error reachable.
func readErr(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrMalformedContainer, what)
	}

	return fmt.Errorf("failed to read %s: %w", what, err)
}
