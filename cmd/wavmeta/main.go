// This tool reads the tempo and root-note tags of a wav file, or writes
// them when -bpm or -key is passed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	wavmeta "github.com/jjurm/wav-meta-tagger"
)

const missingPathMessage = "You must pass the path of the file to process"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("wavmeta", flag.ContinueOnError)
	flags.SetOutput(out)

	bpm := flags.Float64("bpm", 0, "Tempo in beats per minute to write")
	key := flags.String("key", "", "Root note to write, for example G# or eb3")
	dest := flags.String("out", "", "Destination path, defaults to rewriting the file in place")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() < 1 {
		return errMissingPath
	}

	path := flags.Arg(0)

	rec := wavmeta.TagRecord{TempoBPM: *bpm, RootNote: *key}
	if rec.IsZero() {
		return inspect(path, out)
	}

	dst := *dest
	if dst == "" {
		dst = path
	}

	warnings, err := wavmeta.WriteTags(path, dst, rec)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	fmt.Fprintln(out, "Tagged file available at", dst)

	return nil
}

func inspect(path string, out io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s - %w", path, err)
	}
	defer file.Close()

	c, err := wavmeta.DecodeContainer(file)
	if err != nil {
		return err
	}

	for _, ch := range c.Chunks {
		fmt.Fprintf(out, "  %-4s %8d bytes\n", ch.IDString(), ch.Size)
	}

	if f := c.Fmt(); f != nil {
		fmt.Fprintf(out, "Format: %d ch, %d Hz, %d bit\n", f.NumChannels, f.SampleRate, f.BitsPerSample)
	}

	if d, err := c.Duration(); err == nil {
		fmt.Fprintf(out, "Duration: %s\n", d)
	}

	rec, warnings := wavmeta.DecodeTags(c)
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	if rec.IsZero() {
		fmt.Fprintln(out, "No tags present")
		return nil
	}

	if rec.HasTempo() {
		fmt.Fprintf(out, "Tempo: %g BPM\n", rec.TempoBPM)
	}

	if rec.HasRootNote() {
		fmt.Fprintf(out, "Root note: %s\n", rec.RootNote)
	}

	return nil
}
