package wavmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"testing"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

// buildWav assembles a RIFF/WAVE byte stream with word-aligned chunks and a
// correct outer size.
func buildWav(t *testing.T, chunks ...testChunk) []byte {
	t.Helper()

	var b bytes.Buffer
	b.WriteString("RIFF")

	err := binary.Write(&b, binary.LittleEndian, uint32(0))
	if err != nil {
		t.Fatalf("write riff size placeholder: %v", err)
	}

	b.WriteString("WAVE")

	for _, ch := range chunks {
		writeTestChunk(t, &b, ch.id, ch.data)
	}

	out := b.Bytes()
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))

	return out
}

func writeTestChunk(t *testing.T, b *bytes.Buffer, id string, payload []byte) {
	t.Helper()

	if len(id) != 4 {
		t.Fatalf("chunk id must be 4 bytes, got %q", id)
	}

	b.WriteString(id)

	err := binary.Write(b, binary.LittleEndian, uint32(len(payload)))
	if err != nil {
		t.Fatalf("write chunk size for %q: %v", id, err)
	}

	if _, err := b.Write(payload); err != nil {
		t.Fatalf("write chunk payload for %q: %v", id, err)
	}

	if len(payload)%2 == 1 {
		err := b.WriteByte(0)
		if err != nil {
			t.Fatalf("write chunk pad for %q: %v", id, err)
		}
	}
}

func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

// checkSizeConsistency fails the test unless the outer RIFF size and every
// declared chunk size line up exactly with the actual bytes.
func checkSizeConsistency(t *testing.T, data []byte) {
	t.Helper()

	if len(data) < 12 {
		t.Fatalf("output is %d bytes, too small for a RIFF header", len(data))
	}

	outer := binary.LittleEndian.Uint32(data[4:8])
	if int(outer) != len(data)-8 {
		t.Fatalf("outer size is %d, want %d", outer, len(data)-8)
	}

	offset := 12
	for offset < len(data) {
		if offset+8 > len(data) {
			t.Fatalf("dangling %d bytes after last chunk", len(data)-offset)
		}

		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])

		offset += 8 + int(size)
		if size%2 == 1 {
			offset++
		}
	}

	if offset != len(data) {
		t.Fatalf("chunk walk ended at %d, file is %d bytes", offset, len(data))
	}
}

// testFmtPayload returns a standard 16-byte PCM fmt payload.
func testFmtPayload(numChans uint16, sampleRate uint32, bitsPerSample uint16) []byte {
	blockAlign := numChans * bitsPerSample / 8

	p := make([]byte, 16)
	binary.LittleEndian.PutUint16(p[0:2], 1)
	binary.LittleEndian.PutUint16(p[2:4], numChans)
	binary.LittleEndian.PutUint32(p[4:8], sampleRate)
	binary.LittleEndian.PutUint32(p[8:12], sampleRate*uint32(blockAlign))
	binary.LittleEndian.PutUint16(p[12:14], blockAlign)
	binary.LittleEndian.PutUint16(p[14:16], bitsPerSample)

	return p
}

// makeMinimalWav returns the smallest valid WAVE file: a 16-byte PCM fmt
// chunk and an empty data chunk, 44 bytes total.
func makeMinimalWav(t *testing.T) []byte {
	t.Helper()

	return buildWav(t,
		testChunk{id: "fmt ", data: testFmtPayload(1, 8000, 16)},
		testChunk{id: "data", data: nil},
	)
}

func rawAcidPayload(fileType uint32, rootNote uint16, numBeats uint32, tempo float32) []byte {
	p := make([]byte, acidChunkSize)
	binary.LittleEndian.PutUint32(p[0:4], fileType)
	binary.LittleEndian.PutUint16(p[4:6], rootNote)
	binary.LittleEndian.PutUint16(p[6:8], 0x8000)
	binary.LittleEndian.PutUint32(p[12:16], numBeats)
	binary.LittleEndian.PutUint16(p[16:18], 4)
	binary.LittleEndian.PutUint16(p[18:20], 4)
	binary.LittleEndian.PutUint32(p[20:24], math.Float32bits(tempo))

	return p
}

func rawInstPayload(unshiftedNote byte) []byte {
	return []byte{unshiftedNote, 0, 0, 0, 0x7F, 0, 0x7F}
}

func rawSmplPayload(unityNote uint32, loops int) []byte {
	p := make([]byte, smplChunkMinSize+loops*smplLoopSize)
	binary.LittleEndian.PutUint32(p[12:16], unityNote)
	binary.LittleEndian.PutUint32(p[28:32], uint32(loops))

	for i := 0; i < loops; i++ {
		off := smplChunkMinSize + i*smplLoopSize
		copy(p[off:off+4], "loop")
		binary.LittleEndian.PutUint32(p[off+8:off+12], uint32(100*i))
		binary.LittleEndian.PutUint32(p[off+12:off+16], uint32(100*i+50))
	}

	return p
}

func writeTempFile(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
