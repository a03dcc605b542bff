// Package fileutil provides atomic file replacement with integrity checks.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists reports a no-clobber write whose target already exists.
var ErrExists = errors.New("target exists")

// WriteAtomic writes the output of fill to a temporary file beside path,
// verifies it on disk against the SHA256 of what was written, and moves it
// into place. Without overwrite an existing target is left untouched and
// ErrExists is returned, including when another writer wins a race. It
// returns the hex SHA256 of the committed file.
func WriteAtomic(path string, mode os.FileMode, overwrite bool, fill func(io.Writer) error) (string, error) {
	if !overwrite {
		if _, err := os.Lstat(path); err == nil {
			return "", fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(tmp, hasher)}
	if err := fill(counter); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	sum := hasher.Sum(nil)
	if err := verify(tmpPath, counter.n, sum); err != nil {
		return "", err
	}

	if overwrite {
		if err := os.Rename(tmpPath, path); err != nil {
			return "", fmt.Errorf("rename into place: %w", err)
		}
		committed = true
		return hex.EncodeToString(sum), nil
	}

	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%s: %w", path, ErrExists)
		}
		return "", fmt.Errorf("link into place: %w", err)
	}
	return hex.EncodeToString(sum), nil
}

// Checksum returns the hex SHA256 of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func verify(path string, size int64, sum []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat temp file: %w", err)
	}
	if info.Size() != size {
		return fmt.Errorf("write size mismatch: wrote %d bytes, file has %d bytes", size, info.Size())
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	if !bytes.Equal(h.Sum(nil), sum) {
		return errors.New("write hash mismatch: file corrupted on disk")
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
