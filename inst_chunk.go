package wavmeta

import "fmt"

// inst chunk layout: seven single-byte MIDI playback hints.
const instChunkSize = 7

// InstChunk is the decoded payload of an inst chunk.
type InstChunk struct {
	UnshiftedNote uint8
	FineTune      int8
	Gain          int8
	LowNote       uint8
	HighNote      uint8
	LowVelocity   uint8
	HighVelocity  uint8
}

// NewInstChunk returns an inst chunk with the conventional defaults: root
// at 0x3C, full note and velocity ranges, no tuning or gain offset.
func NewInstChunk() *InstChunk {
	return &InstChunk{
		UnshiftedNote: 0x3C,
		HighNote:      0x7F,
		HighVelocity:  0x7F,
	}
}

// DecodeInstChunk parses the 7-byte inst payload. Any other payload length
// is an unsupported layout variant; callers report it as a warning and pass
// the chunk through untouched.
func DecodeInstChunk(data []byte) (*InstChunk, error) {
	if len(data) != instChunkSize {
		return nil, fmt.Errorf("inst chunk payload is %d bytes, want %d", len(data), instChunkSize)
	}

	return &InstChunk{
		UnshiftedNote: data[0],
		FineTune:      int8(data[1]),
		Gain:          int8(data[2]),
		LowNote:       data[3],
		HighNote:      data[4],
		LowVelocity:   data[5],
		HighVelocity:  data[6],
	}, nil
}

func (i *InstChunk) encode() []byte {
	return []byte{
		i.UnshiftedNote,
		byte(i.FineTune),
		byte(i.Gain),
		i.LowNote,
		i.HighNote,
		i.LowVelocity,
		i.HighVelocity,
	}
}

// SetUnshiftedNote replaces only the root note, leaving the tuning, gain
// and range bytes alone. Writing the note the chunk already stores is a
// no-op, which keeps an unchanged file byte-identical.
func (i *InstChunk) SetUnshiftedNote(note uint8) bool {
	if i.UnshiftedNote == note {
		return false
	}

	i.UnshiftedNote = note

	return true
}
