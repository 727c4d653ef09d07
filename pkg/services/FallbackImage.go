package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"

	"github.com/nfnt/resize"
)

const (
	SizeThumbnail = "thumbnail"
	SizeFullsize  = "fullsize"

	ThumbnailMaxSize uint = 640
)

/*
FallbackImage is the static image served when no rendition can be fetched
from the catalog. A nil *FallbackImage means no fallback is available.
*/
type FallbackImage struct {
	full      ImageData
	thumbnail ImageData
}

type ImageData struct {
	Body        []byte
	ContentType string
}

/*
LoadFallbackImage reads the fallback image from disk and prepares a
thumbnail variant no larger than ThumbnailMaxSize on its longest edge.
*/
func LoadFallbackImage(path string) (*FallbackImage, error) {
	var (
		err  error
		data []byte
	)

	if data, err = os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("error reading fallback image '%s': %w", path, err)
	}

	return NewFallbackImage(data), nil
}

func NewFallbackImage(data []byte) *FallbackImage {
	full := ImageData{Body: data, ContentType: http.DetectContentType(data)}

	result := &FallbackImage{
		full:      full,
		thumbnail: full,
	}

	thumbnail, err := makeThumbnail(data, ThumbnailMaxSize)
	if err != nil {
		slog.Warn("using full size fallback image as thumbnail", "error", err)
		return result
	}

	if thumbnail != nil {
		result.thumbnail = ImageData{Body: thumbnail, ContentType: "image/jpeg"}
	}

	return result
}

func (f *FallbackImage) Get(size string) (ImageData, bool) {
	if f == nil {
		return ImageData{}, false
	}

	if size == SizeThumbnail {
		return f.thumbnail, true
	}

	return f.full, true
}

// makeThumbnail returns nil when the image is already small enough.
func makeThumbnail(data []byte, maxSize uint) ([]byte, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error decoding fallback image: %w", err)
	}

	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= maxSize && height <= maxSize {
		return nil, nil
	}

	var newWidth, newHeight uint

	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	resized := resize.Resize(newWidth, newHeight, img, resize.Lanczos3)

	buf := bytes.Buffer{}

	if err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("error encoding fallback thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
