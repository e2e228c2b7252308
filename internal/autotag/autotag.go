// Package autotag writes tempo and root-note metadata into WAVE files,
// deriving the values from the files' own names.
package autotag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	wavmeta "github.com/jjurm/wav-meta-tagger"
	"github.com/jjurm/wav-meta-tagger/internal/nameparse"
)

// Transformer tags WAVE files in place. Files without a .wav extension
// or without a recognizable tempo or key in their name pass through
// untouched.
type Transformer struct{}

func New() *Transformer { return &Transformer{} }

// Prepare implements the pipeline stage interface; tagging needs no
// up-front planning.
func (t *Transformer) Prepare(files []string) ([]string, error) {
	return files, nil
}

// Transform parses tags out of the file name and writes them into the
// file's metadata chunks. Each written tag is noted on report, marked
// "+" when its chunk was created and "!" when an existing chunk was
// updated.
func (t *Transformer) Transform(path string, report io.Writer) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return path, nil
	}

	rec := nameparse.Tags(path)
	if rec.IsZero() {
		return path, nil
	}

	hadTempo, hadRoot, err := existingChunks(path)
	if err != nil {
		return "", err
	}

	warnings, err := wavmeta.WriteTags(path, path, rec)
	if err != nil {
		return "", err
	}

	for _, w := range warnings {
		fmt.Fprintf(report, "  warning: %s\n", w)
	}

	if rec.HasTempo() {
		fmt.Fprintf(report, "  %s tempo: %g BPM\n", marker(hadTempo), rec.TempoBPM)
	}

	if rec.HasRootNote() {
		fmt.Fprintf(report, "  %s root: %s\n", marker(hadRoot), rec.RootNote)
	}

	return path, nil
}

// existingChunks reports whether the file already carries a tempo chunk
// and a root-note chunk before the write.
func existingChunks(path string) (hadTempo, hadRoot bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, false, fmt.Errorf("failed to open %s - %w", path, err)
	}
	defer f.Close()

	c, err := wavmeta.DecodeContainer(f)
	if err != nil {
		return false, false, fmt.Errorf("failed to decode %s - %w", path, err)
	}

	hadTempo = c.Chunk(wavmeta.CIDAcid) != nil
	hadRoot = c.Chunk(wavmeta.CIDInst) != nil || c.Chunk(wavmeta.CIDSmpl) != nil

	return hadTempo, hadRoot, nil
}

func marker(existed bool) string {
	if existed {
		return "!"
	}

	return "+"
}
