package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize bounds uploaded listing pictures.
const MaxImageSize = 5 << 20

var (
	// ErrInvalidImage is returned for uploads that are not jpeg, png or webp.
	ErrInvalidImage = errors.New("only jpeg, png and webp images are allowed")
	// ErrImageTooLarge is returned for uploads above MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds 5MB")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Store persists uploaded images and returns their public URL.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is an upload waiting to be stored.
type Image struct {
	Data        []byte
	ContentType string
}

// ReadImage reads at most MaxImageSize bytes and checks the sniffed content type.
func ReadImage(r io.Reader) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return Image{}, ErrImageTooLarge
	}
	ct := http.DetectContentType(data)
	if _, ok := imageExtensions[ct]; !ok {
		return Image{}, ErrInvalidImage
	}
	return Image{Data: data, ContentType: ct}, nil
}

// ObjectName builds a unique object name such as "adoption_<uuid>.png".
func ObjectName(prefix, contentType string) string {
	return prefix + uuid.NewString() + imageExtensions[contentType]
}

// objectFromURL returns the object name at the end of a public URL.
func objectFromURL(url, base string) (string, bool) {
	if base != "" && !strings.HasPrefix(url, base+"/") {
		return "", false
	}
	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return "", false
	}
	return name, true
}
