package wavmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// acid chunk layout as written by ACID and compatible loop tools:
// uint32 file type flags, uint16 root note, uint16 reserved (0x8000),
// float32 reserved, uint32 beat count, uint16+uint16 meter, float32 tempo.
const acidChunkSize = 24

// Acid file-type flag bits.
const (
	AcidFlagOneShot   = 0x01
	AcidFlagRootSet   = 0x02
	AcidFlagStretch   = 0x04
	AcidFlagDiskBased = 0x08
	AcidFlagAcidizer  = 0x10
)

// AcidChunk is the decoded payload of an acid chunk, the tempo and
// time-stretch metadata of ACIDized loops.
type AcidChunk struct {
	FileType   uint32
	RootNote   uint16
	Reserved1  uint16
	Reserved2  float32
	NumBeats   uint32
	MeterDenom uint16
	MeterNum   uint16
	Tempo      float32
}

// NewAcidChunk returns an acid chunk with the conventional defaults: a
// one-shot rooted at 0x3C, 4/4 meter, no beats and no tempo.
func NewAcidChunk() *AcidChunk {
	return &AcidChunk{
		FileType:   AcidFlagOneShot,
		RootNote:   0x3C,
		Reserved1:  0x8000,
		MeterDenom: 4,
		MeterNum:   4,
	}
}

// DecodeAcidChunk parses the 24-byte acid payload. Any other payload length
// is an unsupported layout variant; callers report it as a warning and pass
// the chunk through untouched.
func DecodeAcidChunk(data []byte) (*AcidChunk, error) {
	if len(data) != acidChunkSize {
		return nil, fmt.Errorf("acid chunk payload is %d bytes, want %d", len(data), acidChunkSize)
	}

	a := &AcidChunk{}

	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, a)
	if err != nil {
		return nil, fmt.Errorf("failed to decode acid chunk: %w", err)
	}

	return a, nil
}

func (a *AcidChunk) encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, acidChunkSize))
	_ = binary.Write(buf, binary.LittleEndian, a)

	return buf.Bytes()
}

// SetTempo applies a tempo in BPM: the one-shot flag is cleared, the
// stretch flag is set and the beat count is replaced. Writing the tempo the
// chunk already stores is a no-op, which keeps an unchanged file
// byte-identical.
func (a *AcidChunk) SetTempo(bpm float64, beats uint32) bool {
	if a.Tempo == float32(bpm) {
		return false
	}

	a.FileType = a.FileType&^AcidFlagOneShot | AcidFlagStretch
	a.NumBeats = beats
	a.Tempo = float32(bpm)

	return true
}

// beatCount converts a tempo into a whole number of beats over the
// container's audio duration, zero when the fmt or data chunk is missing.
func beatCount(c *Container, bpm float64) uint32 {
	f := c.Fmt()
	if f == nil || f.SampleRate == 0 || f.BlockAlign == 0 {
		return 0
	}

	seconds := float64(c.Frames()) / float64(f.SampleRate)

	return uint32(math.Round(bpm / 60 * seconds))
}
