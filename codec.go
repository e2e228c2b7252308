package wavmeta

import "github.com/go-audio/riff"

// tagFieldHandler reads one TagRecord field out of a container's chunks and
// applies it back. A handler owns its chunks completely and preserves every
// byte it does not rewrite.
type tagFieldHandler interface {
	Decode(c *Container, rec *TagRecord) []Warning
	Apply(c *Container, rec TagRecord) ([]Warning, error)
}

// tagHandlers is the fixed handler chain, one handler per record field.
func tagHandlers() []tagFieldHandler {
	return []tagFieldHandler{
		&tempoHandler{},
		&rootNoteHandler{},
	}
}

// DecodeTags extracts the symbolic metadata stored in the container: the
// tempo from the acid chunk, the root note from the inst chunk or, when the
// container has no inst chunk, from the sampler chunk's unity note.
func DecodeTags(c *Container) (TagRecord, []Warning) {
	var (
		rec   TagRecord
		warns []Warning
	)

	for _, h := range tagHandlers() {
		warns = append(warns, h.Decode(c, &rec)...)
	}

	return rec, warns
}

// ApplyTags writes the record's present fields into the container's chunks,
// creating chunks that don't exist yet. Absent fields leave their chunks
// completely untouched. The only error is an unparseable root-note name;
// unsupported chunk layout variants come back as warnings and pass through.
func ApplyTags(c *Container, rec TagRecord) ([]Warning, error) {
	var warns []Warning

	for _, h := range tagHandlers() {
		w, err := h.Apply(c, rec)

		warns = append(warns, w...)
		if err != nil {
			return warns, err
		}
	}

	return warns, nil
}

// insertMetadataChunk places a new metadata chunk in front of the data
// chunk, where samplers conventionally look for it, or at the end when the
// container has no data chunk.
func insertMetadataChunk(c *Container, ch *Chunk) {
	c.InsertBefore(riff.DataFormatID, ch)
}

type tempoHandler struct{}

func (h *tempoHandler) Decode(c *Container, rec *TagRecord) []Warning {
	ch := c.Chunk(CIDAcid)
	if ch == nil {
		return nil
	}

	acid, err := DecodeAcidChunk(ch.Data)
	if err != nil {
		return []Warning{warnf(CIDAcid, "%v", err)}
	}

	// A stored tempo of zero means no tempo was ever written.
	if acid.Tempo > 0 {
		rec.TempoBPM = float64(acid.Tempo)
	}

	return nil
}

func (h *tempoHandler) Apply(c *Container, rec TagRecord) ([]Warning, error) {
	if !rec.HasTempo() {
		return nil, nil
	}

	ch := c.Chunk(CIDAcid)
	if ch == nil {
		acid := NewAcidChunk()
		acid.SetTempo(rec.TempoBPM, beatCount(c, rec.TempoBPM))

		insertMetadataChunk(c, &Chunk{ID: CIDAcid, Size: acidChunkSize, Data: acid.encode()})

		return nil, nil
	}

	acid, err := DecodeAcidChunk(ch.Data)
	if err != nil {
		return []Warning{warnf(CIDAcid, "tempo not written: %v", err)}, nil
	}

	if acid.SetTempo(rec.TempoBPM, beatCount(c, rec.TempoBPM)) {
		ch.Data = acid.encode()
		ch.Size = acidChunkSize
	}

	return nil, nil
}

type rootNoteHandler struct{}

func (h *rootNoteHandler) Decode(c *Container, rec *TagRecord) []Warning {
	if ch := c.Chunk(CIDInst); ch != nil {
		inst, err := DecodeInstChunk(ch.Data)
		if err != nil {
			return []Warning{warnf(CIDInst, "%v", err)}
		}

		rec.RootNote = NoteName(inst.UnshiftedNote)

		return nil
	}

	ch := c.Chunk(CIDSmpl)
	if ch == nil {
		return nil
	}

	note, err := samplerUnityNote(ch.Data)
	if err != nil {
		return []Warning{warnf(CIDSmpl, "%v", err)}
	}

	if note > 127 {
		return []Warning{warnf(CIDSmpl, "unity note %d is beyond the MIDI range", note)}
	}

	rec.RootNote = NoteName(uint8(note))

	return nil
}

func (h *rootNoteHandler) Apply(c *Container, rec TagRecord) ([]Warning, error) {
	if !rec.HasRootNote() {
		return nil, nil
	}

	note, err := ParseNote(rec.RootNote)
	if err != nil {
		return nil, err
	}

	if ch := c.Chunk(CIDInst); ch != nil {
		inst, derr := DecodeInstChunk(ch.Data)
		if derr != nil {
			return []Warning{warnf(CIDInst, "root note not written: %v", derr)}, nil
		}

		if inst.SetUnshiftedNote(note) {
			ch.Data = inst.encode()
			ch.Size = instChunkSize
		}

		return nil, nil
	}

	// No inst chunk: a sampler chunk, when present, already owns the root
	// note, so update it in place rather than adding a second convention.
	if ch := c.Chunk(CIDSmpl); ch != nil {
		return applySamplerUnityNote(ch, note), nil
	}

	inst := NewInstChunk()
	inst.SetUnshiftedNote(note)

	insertMetadataChunk(c, &Chunk{ID: CIDInst, Size: instChunkSize, Data: inst.encode()})

	return nil, nil
}
