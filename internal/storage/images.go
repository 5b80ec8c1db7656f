package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImageDir is the directory, relative to the storage root, holding product images.
const ImageDir = "images"

// ErrUnsupportedImage is returned for uploads outside the image allow-list.
var ErrUnsupportedImage = errors.New("attached file is not an image")

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
}

// IsAllowedImage reports whether contentType may be stored as a product image.
func IsAllowedImage(contentType string) bool {
	_, ok := allowedImageTypes[normalizeContentType(contentType)]
	return ok
}

// SaveImage stores an uploaded image under a fresh name and returns its
// stored path, e.g. "images/2b1e....png".
func SaveImage(ctx context.Context, store Store, contentType string, r io.Reader) (string, error) {
	ext, ok := allowedImageTypes[normalizeContentType(contentType)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	p := path.Join(ImageDir, uuid.NewString()+ext)
	if _, err := store.Save(ctx, p, r); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return p, nil
}

func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
