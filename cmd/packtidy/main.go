// This tool tidies a sample library. It can copy the library into a new
// directory while dropping the pack level of the taxonomy, and tag wav
// files with tempo and root-note metadata parsed from their names.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jjurm/wav-meta-tagger/internal/autotag"
	"github.com/jjurm/wav-meta-tagger/internal/nameparse"
	"github.com/jjurm/wav-meta-tagger/internal/pipeline"
	"github.com/jjurm/wav-meta-tagger/internal/restructure"
)

const missingRootMessage = "You must pass the path of the sample library to process"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingRoot) {
		fmt.Println(missingRootMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingRoot = errors.New("missing library root argument")

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("packtidy", flag.ContinueOnError)
	flags.SetOutput(out)

	target := flags.String("restructure", "", "Copy the library into this directory, dropping the pack level")
	addMetadata := flags.Bool("add-metadata", false, "Tag wav files with the tempo and root note found in their names")
	sanitize := flags.Bool("sanitize", false, "Fold accented path names to ASCII while restructuring")
	workers := flags.Int("workers", 1, "Number of files to process in parallel")
	dryRun := flags.Bool("dry-run", false, "Report what would happen without touching any file")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() < 1 {
		return errMissingRoot
	}

	root := flags.Arg(0)

	var transformers []pipeline.Transformer

	if *target != "" {
		// Resolve the target before entering the library so a relative
		// -restructure path keeps meaning what the caller typed.
		abs, err := filepath.Abs(*target)
		if err != nil {
			return fmt.Errorf("failed to resolve %s - %w", *target, err)
		}

		transformers = append(transformers, restructure.New(abs, *sanitize, out))
	}

	if *addMetadata {
		transformers = append(transformers, autotag.New())
	}

	if len(transformers) == 0 {
		return errors.New("nothing to do: pass -restructure and/or -add-metadata")
	}

	if err := os.Chdir(root); err != nil {
		return fmt.Errorf("failed to enter %s - %w", root, err)
	}

	files, err := pipeline.Walk(".")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "No files found")
		return nil
	}

	if *dryRun {
		return report(transformers, files, *addMetadata, out)
	}

	if err := pipeline.Run(transformers, files, *workers, out); err != nil {
		return err
	}

	fmt.Fprintln(out, "DONE")

	return nil
}

// report prints the planned work of a dry run: the new path of every
// file that would move and the tags every wav file name carries.
func report(transformers []pipeline.Transformer, files []string, addMetadata bool, out io.Writer) error {
	planned := files

	for _, tr := range transformers {
		var err error

		planned, err = tr.Prepare(planned)
		if err != nil {
			return err
		}
	}

	for i, src := range files {
		fmt.Fprintf(out, "--- %s\n", src)

		if planned[i] != src {
			fmt.Fprintf(out, "  > %s\n", planned[i])
		}

		if !addMetadata || !strings.EqualFold(filepath.Ext(src), ".wav") {
			continue
		}

		rec := nameparse.Tags(src)
		if rec.HasTempo() {
			fmt.Fprintf(out, "  tempo: %g BPM\n", rec.TempoBPM)
		}

		if rec.HasRootNote() {
			fmt.Fprintf(out, "  root: %s\n", rec.RootNote)
		}
	}

	return nil
}
