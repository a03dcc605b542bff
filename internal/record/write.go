package record

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/astrogo/fitsio"

	"collator/internal/fileutil"
	"collator/internal/services"
)

// Write encodes rec to path. Without overwrite an existing file fails with
// ErrWriteConflict and is left untouched. It returns the SHA256 of the file.
func Write(path string, rec Record, overwrite bool) (string, error) {
	tags := rec.Tags()
	if err := validateTags(tags); err != nil {
		return "", services.Wrap(nil, "write", "header", filepath.Base(path), err)
	}
	sum, err := fileutil.WriteAtomic(path, 0o644, overwrite, func(w io.Writer) error {
		return encode(w, rec, tags)
	})
	if err != nil {
		if errors.Is(err, fileutil.ErrExists) {
			return "", services.Wrap(services.ErrWriteConflict, "write", "commit", path+" exists and overwrite is off", nil)
		}
		return "", services.Wrap(nil, "write", "commit", path, err)
	}
	return sum, nil
}

func encode(w io.Writer, rec Record, tags []Tag) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("create fits stream: %w", err)
	}

	naxes := rec.Table.Axes().Len()
	var axes []int
	if naxes > 0 {
		axes = []int{rec.Table.GridSize(), naxes}
	}
	img := fitsio.NewImage(-64, axes)
	defer img.Close()

	cards := make([]fitsio.Card, 0, len(tags))
	for _, tag := range tags {
		cards = append(cards, fitsio.Card{Name: tag.Key, Value: tag.Value, Comment: tag.Comment})
	}
	if err := img.Header().Append(cards...); err != nil {
		return fmt.Errorf("append header cards: %w", err)
	}
	if naxes > 0 {
		if err := img.Write(rec.Table.Flat()); err != nil {
			return fmt.Errorf("write image data: %w", err)
		}
	}
	if err := f.Write(img); err != nil {
		return fmt.Errorf("write image hdu: %w", err)
	}
	return f.Close()
}
