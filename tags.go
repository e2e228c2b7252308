package wavmeta

// TagRecord is the symbolic shape of the musical metadata this package
// reads and writes. Zero values mean the field is absent: a zero tempo
// carries no tempo, an empty root note carries no note.
type TagRecord struct {
	// TempoBPM is the tempo in beats per minute.
	TempoBPM float64
	// RootNote is a symbolic note name such as "G#", "Eb" or "F#6"; see
	// ParseNote for the accepted forms.
	RootNote string
}

// HasTempo reports whether the record carries a tempo.
func (t TagRecord) HasTempo() bool { return t.TempoBPM > 0 }

// HasRootNote reports whether the record carries a root note.
func (t TagRecord) HasRootNote() bool { return t.RootNote != "" }

// IsZero reports whether the record carries no fields at all.
func (t TagRecord) IsZero() bool { return !t.HasTempo() && !t.HasRootNote() }
