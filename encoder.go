package wavmeta

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

// EncodeContainer serializes a container to w. Chunks are written in slice
// order. Declared sizes are recomputed from the payload lengths, never
// taken from the Size field, and every odd payload is followed by exactly
// one pad byte: the preserved byte when the chunk carries one, zero
// otherwise. The only failure mode is the destination writer failing.
func EncodeContainer(w io.Writer, c *Container) error {
	e := &chunkWriter{w: w}

	if err := e.addBE(riff.RiffID); err != nil {
		return fmt.Errorf("failed to write RIFF header: %w", err)
	}

	if err := e.addLE(c.Size()); err != nil {
		return fmt.Errorf("failed to write container size: %w", err)
	}

	if err := e.addBE(c.Form); err != nil {
		return fmt.Errorf("failed to write form type: %w", err)
	}

	for _, ch := range c.Chunks {
		if err := e.writeChunk(ch); err != nil {
			return err
		}
	}

	return nil
}

type chunkWriter struct {
	w io.Writer
}

func (e *chunkWriter) addLE(src any) error {
	return binary.Write(e.w, binary.LittleEndian, src)
}

func (e *chunkWriter) addBE(src any) error {
	return binary.Write(e.w, binary.BigEndian, src)
}

func (e *chunkWriter) writeChunk(ch *Chunk) error {
	err := e.addBE(ch.ID)
	if err != nil {
		return fmt.Errorf("failed to write chunk id %q: %w", chunkIDString(ch.ID), err)
	}

	err = e.addLE(uint32(len(ch.Data)))
	if err != nil {
		return fmt.Errorf("failed to write chunk size %q: %w", chunkIDString(ch.ID), err)
	}

	if len(ch.Data) > 0 {
		_, err := e.w.Write(ch.Data)
		if err != nil {
			return fmt.Errorf("failed to write chunk payload %q: %w", chunkIDString(ch.ID), err)
		}
	}

	if len(ch.Data)%2 == 1 {
		pad := ch.Pad
		if len(pad) != 1 {
			pad = []byte{0}
		}

		_, err := e.w.Write(pad)
		if err != nil {
			return fmt.Errorf("failed to write chunk padding %q: %w", chunkIDString(ch.ID), err)
		}
	}

	return nil
}
