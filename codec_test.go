package wavmeta

import (
	"bytes"
	"errors"
	"testing"
)

// metadataTestContainer builds an in-memory container with a PCM fmt chunk,
// the given metadata chunks and a data chunk holding one second of audio.
func metadataTestContainer(metadata ...*Chunk) *Container {
	c := NewContainer()
	c.Append(&Chunk{ID: [4]byte{'f', 'm', 't', ' '}, Data: testFmtPayload(1, 8000, 16)})

	for _, ch := range metadata {
		c.Append(ch)
	}

	c.Append(&Chunk{ID: [4]byte{'d', 'a', 't', 'a'}, Data: make([]byte, 16000)})

	return c
}

func containerChunkIDs(c *Container) []string {
	ids := make([]string, 0, len(c.Chunks))
	for _, ch := range c.Chunks {
		ids = append(ids, string(ch.ID[:]))
	}

	return ids
}

func TestDecodeTagsEmpty(t *testing.T) {
	rec, warns := DecodeTags(metadataTestContainer())

	if !rec.IsZero() {
		t.Fatalf("decoded tags from a container without metadata: %+v", rec)
	}

	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
}

func TestDecodeTags(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDAcid, Data: rawAcidPayload(AcidFlagStretch, 0x3C, 16, 97)},
		&Chunk{ID: CIDInst, Data: rawInstPayload(68)},
	)

	rec, warns := DecodeTags(c)
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	if rec.TempoBPM != 97 {
		t.Fatalf("tempo is %v, want 97", rec.TempoBPM)
	}

	if rec.RootNote != "G#" {
		t.Fatalf("root note is %q, want G#", rec.RootNote)
	}
}

func TestDecodeTagsZeroTempo(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDAcid, Data: rawAcidPayload(AcidFlagOneShot, 0x3C, 0, 0)},
	)

	rec, warns := DecodeTags(c)
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	if rec.HasTempo() {
		t.Fatalf("a zero stored tempo decoded as %v", rec.TempoBPM)
	}
}

func TestDecodeTagsSamplerFallback(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDSmpl, Data: rawSmplPayload(68, 1)},
	)

	rec, warns := DecodeTags(c)
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	if rec.RootNote != "G#" {
		t.Fatalf("root note is %q, want G#", rec.RootNote)
	}
}

func TestDecodeTagsInstWinsOverSampler(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDSmpl, Data: rawSmplPayload(60, 0)},
		&Chunk{ID: CIDInst, Data: rawInstPayload(80)},
	)

	rec, _ := DecodeTags(c)
	if rec.RootNote != "G#6" {
		t.Fatalf("root note is %q, want G#6 from the inst chunk", rec.RootNote)
	}
}

func TestDecodeTagsWarnings(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDAcid, Data: make([]byte, 20)},
		&Chunk{ID: CIDInst, Data: make([]byte, 3)},
	)

	rec, warns := DecodeTags(c)
	if !rec.IsZero() {
		t.Fatalf("decoded tags from unreadable chunks: %+v", rec)
	}

	if len(warns) != 2 {
		t.Fatalf("expected two warnings, got %v", warns)
	}

	if warns[0].ID != CIDAcid || warns[1].ID != CIDInst {
		t.Fatalf("warnings name the wrong chunks: %v", warns)
	}
}

func TestDecodeTagsSamplerNoteOutOfRange(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDSmpl, Data: rawSmplPayload(300, 0)},
	)

	rec, warns := DecodeTags(c)
	if rec.HasRootNote() {
		t.Fatalf("an out-of-range unity note decoded as %q", rec.RootNote)
	}

	if len(warns) != 1 || warns[0].ID != CIDSmpl {
		t.Fatalf("expected one smpl warning, got %v", warns)
	}
}

func TestApplyTagsCreatesChunks(t *testing.T) {
	c := metadataTestContainer()

	warns, err := ApplyTags(c, TagRecord{TempoBPM: 97, RootNote: "G#"})
	if err != nil {
		t.Fatalf("failed to apply tags - %v", err)
	}

	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	ids := containerChunkIDs(c)
	want := []string{"fmt ", "acid", "inst", "data"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("chunk order mismatch: got %v want %v", ids, want)
		}
	}

	acid, err := DecodeAcidChunk(c.Chunk(CIDAcid).Data)
	if err != nil {
		t.Fatalf("created acid chunk does not decode - %v", err)
	}

	if acid.Tempo != 97 {
		t.Fatalf("tempo is %v, want 97", acid.Tempo)
	}

	if acid.FileType != AcidFlagStretch {
		t.Fatalf("file type is %#x, want %#x", acid.FileType, AcidFlagStretch)
	}

	// One second of audio at 97 BPM.
	if acid.NumBeats != 2 {
		t.Fatalf("beat count is %d, want 2", acid.NumBeats)
	}

	inst, err := DecodeInstChunk(c.Chunk(CIDInst).Data)
	if err != nil {
		t.Fatalf("created inst chunk does not decode - %v", err)
	}

	if inst.UnshiftedNote != 68 {
		t.Fatalf("unshifted note is %d, want 68", inst.UnshiftedNote)
	}
}

func TestApplyTagsUpdatesExisting(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDAcid, Data: rawAcidPayload(AcidFlagOneShot|AcidFlagAcidizer, 0x3E, 4, 120)},
		&Chunk{ID: CIDInst, Data: []byte{0x3C, 0xFE, 0x06, 0x18, 0x7F, 0x01, 0x7F}},
	)

	if _, err := ApplyTags(c, TagRecord{TempoBPM: 97, RootNote: "G#"}); err != nil {
		t.Fatalf("failed to apply tags - %v", err)
	}

	acid, _ := DecodeAcidChunk(c.Chunk(CIDAcid).Data)
	if acid.Tempo != 97 {
		t.Fatalf("tempo is %v, want 97", acid.Tempo)
	}

	// The acidizer flag stays, the one-shot flag gives way to stretch and
	// the root-note field is not the tempo handler's to touch.
	if acid.FileType != AcidFlagStretch|AcidFlagAcidizer {
		t.Fatalf("file type is %#x, want %#x", acid.FileType, AcidFlagStretch|AcidFlagAcidizer)
	}

	if acid.RootNote != 0x3E {
		t.Fatalf("acid root note moved to %#x", acid.RootNote)
	}

	inst, _ := DecodeInstChunk(c.Chunk(CIDInst).Data)
	if inst.UnshiftedNote != 68 {
		t.Fatalf("unshifted note is %d, want 68", inst.UnshiftedNote)
	}

	if inst.FineTune != -2 || inst.Gain != 6 || inst.LowNote != 0x18 {
		t.Fatal("a root-note write disturbed unrelated inst fields")
	}
}

func TestApplyTagsPartialFieldLeavesOtherChunkAlone(t *testing.T) {
	acidBefore := rawAcidPayload(AcidFlagStretch, 0x3C, 4, 120)
	instBefore := rawInstPayload(60)

	c := metadataTestContainer(
		&Chunk{ID: CIDAcid, Data: bytes.Clone(acidBefore)},
		&Chunk{ID: CIDInst, Data: bytes.Clone(instBefore)},
	)

	// Tempo only: the inst chunk must not move.
	if _, err := ApplyTags(c, TagRecord{TempoBPM: 97}); err != nil {
		t.Fatalf("failed to apply tempo - %v", err)
	}

	if !bytes.Equal(c.Chunk(CIDInst).Data, instBefore) {
		t.Fatal("a tempo-only write touched the inst chunk")
	}

	// Root note only: the acid chunk must not move again.
	acidAfterTempo := bytes.Clone(c.Chunk(CIDAcid).Data)

	if _, err := ApplyTags(c, TagRecord{RootNote: "A"}); err != nil {
		t.Fatalf("failed to apply root note - %v", err)
	}

	if !bytes.Equal(c.Chunk(CIDAcid).Data, acidAfterTempo) {
		t.Fatal("a root-only write touched the acid chunk")
	}

	if note := c.Chunk(CIDInst).Data[0]; note != 69 {
		t.Fatalf("unshifted note is %d, want 69", note)
	}
}

func TestApplyTagsStoredValuesChangeNothing(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDAcid, Data: rawAcidPayload(AcidFlagOneShot, 0x3C, 4, 97)},
		&Chunk{ID: CIDInst, Data: rawInstPayload(68)},
	)

	var before bytes.Buffer
	if err := EncodeContainer(&before, c); err != nil {
		t.Fatalf("failed to encode container - %v", err)
	}

	rec, _ := DecodeTags(c)

	if _, err := ApplyTags(c, rec); err != nil {
		t.Fatalf("failed to apply tags - %v", err)
	}

	var after bytes.Buffer
	if err := EncodeContainer(&after, c); err != nil {
		t.Fatalf("failed to encode container - %v", err)
	}

	if !bytes.Equal(before.Bytes(), after.Bytes()) {
		t.Fatal("re-applying the stored tags changed the container")
	}
}

func TestApplyTagsSamplerInPlace(t *testing.T) {
	c := metadataTestContainer(
		&Chunk{ID: CIDSmpl, Data: rawSmplPayload(60, 1)},
	)

	warns, err := ApplyTags(c, TagRecord{RootNote: "G#"})
	if err != nil {
		t.Fatalf("failed to apply root note - %v", err)
	}

	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	if c.Chunk(CIDInst) != nil {
		t.Fatal("an inst chunk was created although the smpl chunk owns the root note")
	}

	note, err := samplerUnityNote(c.Chunk(CIDSmpl).Data)
	if err != nil {
		t.Fatalf("failed to read unity note back - %v", err)
	}

	if note != 68 {
		t.Fatalf("unity note is %d, want 68", note)
	}
}

func TestApplyTagsInvalidNote(t *testing.T) {
	c := metadataTestContainer()
	before := containerChunkIDs(c)

	_, err := ApplyTags(c, TagRecord{RootNote: "H"})
	if !errors.Is(err, ErrInvalidNote) {
		t.Fatalf("expected ErrInvalidNote, got %v", err)
	}

	after := containerChunkIDs(c)
	if len(after) != len(before) {
		t.Fatalf("a rejected root note still added chunks: %v", after)
	}
}

func TestApplyTagsNoDataChunkAppends(t *testing.T) {
	c := NewContainer()
	c.Append(&Chunk{ID: [4]byte{'f', 'm', 't', ' '}, Data: testFmtPayload(1, 8000, 16)})

	if _, err := ApplyTags(c, TagRecord{TempoBPM: 120}); err != nil {
		t.Fatalf("failed to apply tempo - %v", err)
	}

	if last := c.Chunks[len(c.Chunks)-1]; last.ID != CIDAcid {
		t.Fatalf("expected the acid chunk at the end, got %q", string(last.ID[:]))
	}
}

func TestApplyTagsBadAcidPassthrough(t *testing.T) {
	odd := bytes.Repeat([]byte{0xEE}, 20)
	c := metadataTestContainer(
		&Chunk{ID: CIDAcid, Data: bytes.Clone(odd)},
	)

	warns, err := ApplyTags(c, TagRecord{TempoBPM: 97})
	if err != nil {
		t.Fatalf("an unreadable acid chunk must warn, not fail - %v", err)
	}

	if len(warns) != 1 || warns[0].ID != CIDAcid {
		t.Fatalf("expected one acid warning, got %v", warns)
	}

	if !bytes.Equal(c.Chunk(CIDAcid).Data, odd) {
		t.Fatal("an unreadable acid chunk was rewritten")
	}
}

func TestApplyTagsBadInstPassthrough(t *testing.T) {
	odd := bytes.Repeat([]byte{0xEE}, 3)
	c := metadataTestContainer(
		&Chunk{ID: CIDInst, Data: bytes.Clone(odd)},
	)

	warns, err := ApplyTags(c, TagRecord{RootNote: "G#"})
	if err != nil {
		t.Fatalf("an unreadable inst chunk must warn, not fail - %v", err)
	}

	if len(warns) != 1 || warns[0].ID != CIDInst {
		t.Fatalf("expected one inst warning, got %v", warns)
	}

	if !bytes.Equal(c.Chunk(CIDInst).Data, odd) {
		t.Fatal("an unreadable inst chunk was rewritten")
	}
}
