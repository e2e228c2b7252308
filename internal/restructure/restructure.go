// Package restructure re-files a sample library from the pack-oriented
// layout Type/Pack/Instrument/…/file into the flat taxonomy
// Type/Instrument/…/file, renaming instrument folders along the way.
package restructure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// instrumentNames maps source instrument folders to their place in the
// target taxonomy. A mapped name may introduce a nested level.
var instrumentNames = map[string]string{
	"808":           "808s",
	"808s & Basses": "808s & Bass",
	"Basses":        "Bass",
	"Full Loops":    "Drum Loops",
	"Guitars":       "Guitar Loops",
	"Hi-Hats":       "Hihat Loops",
	"Hihat MIDI":    "Hihat Loops/MIDI",
	"Melodies":      "Melody Loops",
	"MIDI":          "Melody Loops/MIDI",
	"Top Loops":     "Percussion Loops",
}

// DuplicateTargetError reports source files that would land on the same
// target path, before anything is copied.
type DuplicateTargetError struct {
	Targets []string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("%d target paths collide: %s", len(e.Targets), strings.Join(e.Targets, ", "))
}

// Transformer copies a library into the normalized taxonomy under a target
// directory. Prepare builds the complete rename plan and vetoes the run on
// target collisions; Transform then copies one file at a time.
type Transformer struct {
	target   string
	sanitize bool
	report   io.Writer

	plan        map[string]string
	types       map[string]struct{}
	instruments map[string]struct{}
}

// New returns a Transformer that copies into the taxonomy rooted at target.
// With sanitize set, every path segment is reduced to plain ASCII. Prepare
// writes its library summary to report; nil discards it.
func New(target string, sanitize bool, report io.Writer) *Transformer {
	if report == nil {
		report = io.Discard
	}

	return &Transformer{
		target:      target,
		sanitize:    sanitize,
		report:      report,
		plan:        make(map[string]string),
		types:       make(map[string]struct{}),
		instruments: make(map[string]struct{}),
	}
}

// Prepare maps every source path to its target path and fails with a
// DuplicateTargetError when two sources collide. No file is touched. The
// returned slice holds the target paths in input order.
func (t *Transformer) Prepare(files []string) ([]string, error) {
	targets := make([]string, len(files))
	seen := make(map[string]int)

	for i, path := range files {
		mapped := t.newPath(path)

		t.plan[path] = mapped
		targets[i] = filepath.Join(t.target, mapped)
		seen[targets[i]]++
	}

	var collisions []string
	for target, n := range seen {
		if n > 1 {
			collisions = append(collisions, target)
		}
	}

	if len(collisions) > 0 {
		sort.Strings(collisions)

		return nil, &DuplicateTargetError{Targets: collisions}
	}

	fmt.Fprintf(t.report, "types: %s\n", strings.Join(t.Types(), ", "))
	fmt.Fprintf(t.report, "instruments: %s\n", strings.Join(t.Instruments(), ", "))

	return targets, nil
}

// Transform copies one prepared file into the target taxonomy, creating
// directories as needed and carrying over the permission bits and the
// modification time. It returns the file's new path.
func (t *Transformer) Transform(path string, report io.Writer) (string, error) {
	mapped, ok := t.plan[path]
	if !ok {
		return "", fmt.Errorf("%s was not part of the prepared plan", path)
	}

	dst := filepath.Join(t.target, mapped)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s - %w", filepath.Dir(dst), err)
	}

	if err := copyFile(path, dst); err != nil {
		return "", err
	}

	fmt.Fprintf(report, "  > %s\n", dst)

	return dst, nil
}

// Types returns the sorted type folders seen by Prepare.
func (t *Transformer) Types() []string {
	return sortedKeys(t.types)
}

// Instruments returns the sorted top-level instrument folders seen by
// Prepare.
func (t *Transformer) Instruments() []string {
	return sortedKeys(t.instruments)
}

// newPath maps one source path into the target taxonomy: the first level is
// the type, the second (the pack) is dropped, the third is the instrument
// run through the rename table, and deeper levels carry over. Paths with at
// most one directory level keep their names.
func (t *Transformer) newPath(path string) string {
	dir := filepath.Dir(path)
	parts := strings.Split(dir, string(filepath.Separator))

	segments := []string{parts[0]}

	if dir != "." {
		t.types[parts[0]] = struct{}{}
	}

	if len(parts) > 2 {
		instrument := parts[2]
		if mapped, ok := instrumentNames[instrument]; ok {
			instrument = mapped
		}

		t.instruments[strings.SplitN(instrument, "/", 2)[0]] = struct{}{}

		segments = append(segments, instrument)
		segments = append(segments, parts[3:]...)
	}

	segments = append(segments, filepath.Base(path))

	if t.sanitize {
		for i := range segments {
			segments[i] = sanitizeSegment(segments[i])
		}
	}

	return filepath.Join(segments...)
}

// sanitizeSegment reduces one path segment to plain ASCII: decompose,
// strip combining marks, drop what remains non-ASCII and collapse runs of
// whitespace. A segment that sanitizes away entirely keeps its name.
func sanitizeSegment(s string) string {
	decompose := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

	decomposed, _, err := transform.String(decompose, s)
	if err != nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(decomposed))

	pendingSpace := false
	for _, r := range decomposed {
		switch {
		case r > unicode.MaxASCII:
			// dropped
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}

			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return s
	}

	return b.String()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func copyFile(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s - %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s - %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s - %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()

		return fmt.Errorf("failed to copy to %s - %w", dst, err)
	}

	if err := out.Chmod(fi.Mode().Perm()); err != nil {
		out.Close()

		return fmt.Errorf("failed to set permissions on %s - %w", dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s - %w", dst, err)
	}

	if err := os.Chtimes(dst, fi.ModTime(), fi.ModTime()); err != nil {
		return fmt.Errorf("failed to set times on %s - %w", dst, err)
	}

	return nil
}
