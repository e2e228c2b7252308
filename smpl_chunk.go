package wavmeta

import (
	"encoding/binary"
	"fmt"
)

// smpl chunk layout: a 36-byte fixed header (manufacturer, product, sample
// period, MIDI unity note, pitch fraction, SMPTE fields, loop and
// sampler-data counts) followed by 24-byte loop descriptors.
const (
	smplChunkMinSize    = 36
	smplUnityNoteOffset = 12
	smplLoopSize        = 24
)

// SamplerInfo is the decoded fixed part of a smpl chunk plus its loops.
type SamplerInfo struct {
	Manufacturer      [4]byte
	Product           [4]byte
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	NumSampleLoops    uint32
	SamplerData       uint32
	Loops             []*SampleLoop
}

// SampleLoop is one loop descriptor of a smpl chunk.
type SampleLoop struct {
	CuePointID [4]byte
	Type       uint32
	Start      uint32
	End        uint32
	Fraction   uint32
	PlayCount  uint32
}

// DecodeSamplerChunk parses a smpl payload, loop descriptors included. The
// tag codec only ever touches the unity-note field; the full view serves
// display and tests.
func DecodeSamplerChunk(data []byte) (*SamplerInfo, error) {
	if len(data) < smplChunkMinSize {
		return nil, fmt.Errorf("smpl chunk payload is %d bytes, need at least %d", len(data), smplChunkMinSize)
	}

	info := &SamplerInfo{
		SamplePeriod:      binary.LittleEndian.Uint32(data[8:12]),
		MIDIUnityNote:     binary.LittleEndian.Uint32(data[12:16]),
		MIDIPitchFraction: binary.LittleEndian.Uint32(data[16:20]),
		SMPTEFormat:       binary.LittleEndian.Uint32(data[20:24]),
		SMPTEOffset:       binary.LittleEndian.Uint32(data[24:28]),
		NumSampleLoops:    binary.LittleEndian.Uint32(data[28:32]),
		SamplerData:       binary.LittleEndian.Uint32(data[32:36]),
	}
	copy(info.Manufacturer[:], data[0:4])
	copy(info.Product[:], data[4:8])

	loops := data[smplChunkMinSize:]
	for i := uint32(0); i < info.NumSampleLoops; i++ {
		if len(loops) < smplLoopSize {
			return nil, fmt.Errorf("smpl chunk declares %d loops but has data for %d", info.NumSampleLoops, i)
		}

		loop := &SampleLoop{
			Type:      binary.LittleEndian.Uint32(loops[4:8]),
			Start:     binary.LittleEndian.Uint32(loops[8:12]),
			End:       binary.LittleEndian.Uint32(loops[12:16]),
			Fraction:  binary.LittleEndian.Uint32(loops[16:20]),
			PlayCount: binary.LittleEndian.Uint32(loops[20:24]),
		}
		copy(loop.CuePointID[:], loops[0:4])

		info.Loops = append(info.Loops, loop)
		loops = loops[smplLoopSize:]
	}

	return info, nil
}

// samplerUnityNote reads the MIDI unity note out of a smpl payload without
// requiring the loop table to parse.
func samplerUnityNote(data []byte) (uint32, error) {
	if len(data) < smplChunkMinSize {
		return 0, fmt.Errorf("smpl chunk payload is %d bytes, need at least %d", len(data), smplChunkMinSize)
	}

	return binary.LittleEndian.Uint32(data[smplUnityNoteOffset:]), nil
}

// applySamplerUnityNote rewrites the unity-note field in place. Every other
// byte of the chunk, loop tables included, is preserved; an equal value
// leaves the payload untouched.
func applySamplerUnityNote(ch *Chunk, note uint8) []Warning {
	if len(ch.Data) < smplChunkMinSize {
		return []Warning{warnf(CIDSmpl, "root note not written: payload is %d bytes, need at least %d",
			len(ch.Data), smplChunkMinSize)}
	}

	if binary.LittleEndian.Uint32(ch.Data[smplUnityNoteOffset:]) == uint32(note) {
		return nil
	}

	binary.LittleEndian.PutUint32(ch.Data[smplUnityNoteOffset:], uint32(note))

	return nil
}
