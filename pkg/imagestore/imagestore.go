// Package imagestore keeps uploaded images of users and pets.
//
// Images are referred by URLs. Stores return the URL of a saved image, and
// delete images by the URL.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/opst/vettracker/pkg/domain"
)

// MaxSize of images in bytes.
const MaxSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("image type is not supported")
	ErrTooLarge        = errors.New("image is too large")
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Accept checks filename and size of an uploaded image.
func Accept(filename string, size int64) error {
	if _, ok := contentTypes[strings.ToLower(path.Ext(filename))]; !ok {
		return fmt.Errorf("%w: %s (allowed: .jpg, .jpeg, .png, .gif)", ErrUnsupportedType, filename)
	}
	if MaxSize < size {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrTooLarge, size, MaxSize)
	}
	return nil
}

// ContentType of filename, by its extension.
func ContentType(filename string) string {
	if t, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return t
	}
	return "application/octet-stream"
}

// NewName generates a unique name, keeping the extension of filename.
func NewName(filename string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(filename))
}

type Store interface {
	// Save writes an image and returns its URL.
	//
	// The name of image is generated from filename with NewName.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Delete removes the image at url.
	//
	// Deleting domain.DefaultImage, empty url or images of other stores are no-op.
	Delete(ctx context.Context, url string) error
}

// isDefault tells url is not an uploaded one.
func isDefault(url string) bool {
	return url == "" || url == domain.DefaultImage
}
