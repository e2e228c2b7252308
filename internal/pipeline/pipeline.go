// Package pipeline discovers the files of a sample library and runs a
// chain of transformers over them.
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Transformer is one stage of the pipeline. Prepare sees the full file
// list before any work starts and returns the paths the next stage
// should expect, one per input path and in input order. Transform
// processes a single file, writes its notes to report, and returns the
// path the next stage should operate on.
//
// Transform must be safe for concurrent use; Prepare is always called
// alone.
type Transformer interface {
	Prepare(files []string) ([]string, error)
	Transform(path string, report io.Writer) (string, error)
}

// Walk lists the regular files under root relative to root, sorted.
// Files whose name starts with a dot are skipped; hidden directories
// are still traversed.
func Walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || strings.HasPrefix(d.Name(), ".") || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s - %w", root, err)
	}

	sort.Strings(files)

	return files, nil
}

// Run prepares every transformer over the full file list, then feeds
// each file through the transformer chain. Every stage's Prepare sees
// the paths the previous stage plans to produce, while the transform
// chain itself starts from the original paths. Files are processed by
// up to workers goroutines, but their reports are written to out in
// input order. A failing file is reported and skipped by the remaining
// stages; Run returns an error when any file failed.
func Run(transformers []Transformer, files []string, workers int, out io.Writer) error {
	planned := files

	for _, tr := range transformers {
		var err error

		planned, err = tr.Prepare(planned)
		if err != nil {
			return err
		}
	}

	if workers < 1 {
		workers = 1
	}

	reports := make([]fileReport, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				reports[i].run(transformers, files[i])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	failed := 0

	for i := range reports {
		if _, err := out.Write(reports[i].buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write report - %w", err)
		}

		if reports[i].err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}

	return nil
}

// fileReport buffers the pipeline output for one file so that parallel
// workers can emit their notes in input order.
type fileReport struct {
	buf bytes.Buffer
	err error
}

func (r *fileReport) run(transformers []Transformer, path string) {
	fmt.Fprintf(&r.buf, "--- %s\n", path)

	for _, tr := range transformers {
		next, err := tr.Transform(path, &r.buf)
		if err != nil {
			r.err = err
			fmt.Fprintf(&r.buf, "  failed: %v\n", err)

			return
		}

		path = next
	}
}
