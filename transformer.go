package wavmeta

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadTags opens a WAVE file and returns its symbolic metadata. The file is
// never written to. Warnings report recognized metadata chunks whose
// payload layout could not be decoded.
func ReadTags(path string) (TagRecord, []Warning, error) {
	in, err := os.Open(path)
	if err != nil {
		return TagRecord{}, nil, fmt.Errorf("failed to open %s - %w", path, err)
	}
	defer in.Close()

	c, err := DecodeContainer(in)
	if err != nil {
		return TagRecord{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	rec, warns := DecodeTags(c)

	return rec, warns, nil
}

// WriteTags applies the record's fields to the WAVE file at src and writes
// the result to dst. The two paths may be equal for an in-place update.
//
// The source is parsed completely before any output exists, and the output
// goes through a temporary file in dst's directory that is synced and then
// renamed into place. A malformed source, a bad record or a failed write
// therefore never creates, damages or truncates the destination.
func WriteTags(src, dst string, rec TagRecord) ([]Warning, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s - %w", src, err)
	}

	c, err := DecodeContainer(in)
	if err != nil {
		in.Close()

		return nil, fmt.Errorf("%s: %w", src, err)
	}

	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s - %w", src, err)
	}

	warns, err := ApplyTags(c, rec)
	if err != nil {
		return warns, fmt.Errorf("%s: %w", src, err)
	}

	// os.CreateTemp narrows permissions to 0600; carry over the mode of
	// the file being replaced, or of the source for a fresh destination.
	fi, err := os.Stat(src)
	if err != nil {
		return warns, fmt.Errorf("failed to stat %s - %w", src, err)
	}

	mode := fi.Mode().Perm()
	if di, err := os.Stat(dst); err == nil {
		mode = di.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return warns, fmt.Errorf("failed to create a temporary file for %s - %w", dst, err)
	}

	if err := writeContainerFile(tmp, c, mode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return warns, fmt.Errorf("%s: %w", dst, err)
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())

		return warns, fmt.Errorf("failed to replace %s - %w", dst, err)
	}

	return warns, nil
}

func writeContainerFile(f *os.File, c *Container, mode os.FileMode) error {
	if err := EncodeContainer(f, c); err != nil {
		return err
	}

	if err := f.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set permissions - %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync - %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close - %w", err)
	}

	return nil
}
