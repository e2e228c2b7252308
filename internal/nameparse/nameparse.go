// Package nameparse derives tempo and root-note tags from the naming
// conventions of sample-pack files, such as "Dusty Keys - 97 BPM G# Min.wav"
// or "Soul Chords (F#).wav".
package nameparse

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	wavmeta "github.com/jjurm/wav-meta-tagger"
)

var (
	bpmPattern = regexp.MustCompile(`(?i)[\s-]((\d+\.)?\d+)\s?bpm`)

	// Either a note followed by a mode word, a non-word break or the end
	// of the name ("97 BPM C# Maj", "97 BPM C#"), or a note alone in
	// parentheses ("Soul Chords (F#)").
	keyPattern = regexp.MustCompile(
		`(?i)([\s-](?P<key1>[A-G][#b]?)((\s(Maj|Min))|([^A-Za-z0-9#][^#-]*)|$))|([\s-]\((?P<key2>[A-G][#b]?)\))`)

	key1Index = keyPattern.SubexpIndex("key1")
	key2Index = keyPattern.SubexpIndex("key2")
)

// BPM extracts a tempo from a file name without its extension. The second
// return is false when the name carries no usable tempo.
func BPM(name string) (float64, bool) {
	m := bpmPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}

	bpm, err := strconv.ParseFloat(m[1], 64)
	if err != nil || bpm <= 0 {
		return 0, false
	}

	return bpm, true
}

// RootNote extracts a root note from a file name without its extension,
// exactly as spelled there. The second return is false when the name
// carries no note.
func RootNote(name string) (string, bool) {
	m := keyPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}

	key := m[key1Index]
	if key == "" {
		key = m[key2Index]
	}

	return key, true
}

// Tags derives the tag record a file name implies. The extension is ignored;
// a name carrying neither a tempo nor a note yields a zero record.
func Tags(filename string) wavmeta.TagRecord {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	var rec wavmeta.TagRecord

	if bpm, ok := BPM(name); ok {
		rec.TempoBPM = bpm
	}

	if key, ok := RootNote(name); ok {
		rec.RootNote = key
	}

	return rec
}
