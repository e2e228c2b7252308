package wavmeta

import (
	"fmt"
	"strconv"
	"strings"
)

// noteOffsets maps lower-cased pitch-class names to semitone offsets from C.
// Both accidental spellings are accepted; Cb lands on the same offset as B.
var noteOffsets = map[string]int{
	"c": 0, "c#": 1, "db": 1,
	"d": 2, "d#": 3, "eb": 3,
	"e": 4,
	"f": 5, "f#": 6, "gb": 6,
	"g": 7, "g#": 8, "ab": 8,
	"a": 9, "a#": 10, "bb": 10,
	"b": 11, "cb": 11,
}

// noteNames holds the preferred spelling per semitone offset.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// canonicalOctave is the octave of the 0x3C unshifted-note convention: a
// bare note name like "G#" means MIDI 60 plus the pitch-class offset.
const canonicalOctave = 5

// ParseNote maps a symbolic note name to a MIDI note number. A name is a
// pitch class with an optional accidental and an optional octave suffix:
// "G#", "eb", "F#6". Names are case-insensitive; a bare name sits in the
// canonical octave (MIDI 60-71).
func ParseNote(name string) (uint8, error) {
	s := strings.ToLower(strings.TrimSpace(name))

	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}

	octave := canonicalOctave

	if i < len(s) {
		v, err := strconv.Atoi(s[i:])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
		}

		octave = v
	}

	offset, ok := noteOffsets[s[:i]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	n := octave*12 + offset
	if n > 127 {
		return 0, fmt.Errorf("%w: %q is beyond the MIDI range", ErrInvalidNote, name)
	}

	return uint8(n), nil
}

// NoteName maps a MIDI note number to its symbolic name. Sharps are
// preferred over flats. Notes in the canonical octave come out bare, all
// others carry the octave digit: 68 is "G#", 80 is "G#6".
func NoteName(n uint8) string {
	name := noteNames[n%12]

	octave := int(n) / 12
	if octave == canonicalOctave {
		return name
	}

	return name + strconv.Itoa(octave)
}
