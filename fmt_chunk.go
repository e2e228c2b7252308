package wavmeta

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

// fmtChunkMinSize is the byte length of the standard fmt fields.
const fmtChunkMinSize = 16

// FmtChunk is a read-only view of the fmt chunk. The chunk payload inside
// the container stays authoritative; this struct exists for introspection
// (format, duration, beat counts) and is never written back.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	// ExtraData holds any bytes beyond the standard fields, opaque.
	ExtraData []byte
}

func decodeFmtChunk(data []byte) (*FmtChunk, error) {
	if len(data) < fmtChunkMinSize {
		return nil, fmt.Errorf("fmt chunk payload is %d bytes, need at least %d", len(data), fmtChunkMinSize)
	}

	f := &FmtChunk{
		FormatTag:      binary.LittleEndian.Uint16(data[0:2]),
		NumChannels:    binary.LittleEndian.Uint16(data[2:4]),
		SampleRate:     binary.LittleEndian.Uint32(data[4:8]),
		AvgBytesPerSec: binary.LittleEndian.Uint32(data[8:12]),
		BlockAlign:     binary.LittleEndian.Uint16(data[12:14]),
		BitsPerSample:  binary.LittleEndian.Uint16(data[14:16]),
	}

	if len(data) > fmtChunkMinSize {
		f.ExtraData = append([]byte(nil), data[fmtChunkMinSize:]...)
	}

	return f, nil
}

// Fmt returns a parsed view of the first fmt chunk, or nil when the
// container has none or its payload is too short to parse.
func (c *Container) Fmt() *FmtChunk {
	ch := c.Chunk(riff.FmtID)
	if ch == nil {
		return nil
	}

	f, err := decodeFmtChunk(ch.Data)
	if err != nil {
		return nil
	}

	return f
}

// Format returns the audio format described by the fmt chunk, or nil when
// the container has no usable fmt chunk.
func (c *Container) Format() *audio.Format {
	f := c.Fmt()
	if f == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(f.NumChannels),
		SampleRate:  int(f.SampleRate),
	}
}

// Frames returns the number of sample frames in the data chunk. A missing
// data chunk or an unusable fmt chunk counts as zero frames.
func (c *Container) Frames() int {
	f := c.Fmt()
	if f == nil || f.BlockAlign == 0 {
		return 0
	}

	data := c.Chunk(riff.DataFormatID)
	if data == nil {
		return 0
	}

	return len(data.Data) / int(f.BlockAlign)
}

// Duration returns the play time of the container computed from the fmt
// and data chunks. A missing data chunk counts as zero frames.
func (c *Container) Duration() (time.Duration, error) {
	f := c.Fmt()
	if f == nil {
		return 0, ErrFmtChunkNotFound
	}

	if f.SampleRate == 0 || f.BlockAlign == 0 {
		return 0, errFmtZeroRate
	}

	seconds := float64(c.Frames()) / float64(f.SampleRate)

	return time.Duration(seconds * float64(time.Second)), nil
}
