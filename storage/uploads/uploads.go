// Package uploads stores user images (cover and map pictures) under `uploads.dir`.
package uploads

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/trezcool/guidebook/core"
	"github.com/trezcool/guidebook/core/document"
)

const (
	formatPNG  = "png"
	formatJPEG = "jpeg"

	jpegQuality = 90

	// MaxPixels caps the decoded size of an image, whatever its file size.
	MaxPixels = 40_000_000
)

var (
	ErrInvalidImage  = errors.New("only PNG or JPG images are allowed")
	ErrImageTooLarge = errors.New("image is too large")
	ErrNotFound      = errors.New("image not found")

	// stored names are "<uuid>.png" or "<uuid>.jpg"
	nameRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(png|jpg)$`)

	newIDFunc = func() string { return uuid.New().String() } // mockable

	extensions = map[string]string{
		".png":  formatPNG,
		".jpg":  formatJPEG,
		".jpeg": formatJPEG,
	}
)

// Upload describes a stored image.
type Upload struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int    `json:"size"`
}

type Store struct {
	dir      string
	maxBytes int64
	maxWidth int
}

// NewStore returns the image store configured by `conf.Uploads`.
func NewStore(conf *core.Config) *Store {
	return &Store{dir: conf.Uploads.Dir, maxBytes: conf.Uploads.MaxBytes, maxWidth: conf.Uploads.MaxWidth}
}

func invalid(err error) error {
	return core.NewValidationError(err, core.FieldError{Field: "file", Error: err.Error()})
}

// Save validates `data` as a PNG or JPEG named `filename` and stores it under a new name.
// Nothing is written when validation fails.
func (s *Store) Save(ctx context.Context, filename string, data []byte) (Upload, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return Upload{}, invalid(ErrImageTooLarge)
	}
	img, format, err := Validate(filename, data)
	if err != nil {
		return Upload{}, err
	}

	if b := img.Bounds(); s.maxWidth > 0 && b.Dx() > s.maxWidth {
		img = Downscale(img, s.maxWidth)
		if data, err = encode(img, format); err != nil {
			return Upload{}, errors.Wrap(err, "encoding downscaled image")
		}
	}
	if err = ctx.Err(); err != nil {
		return Upload{}, err
	}

	ext := ".png"
	if format == formatJPEG {
		ext = ".jpg"
	}
	up := Upload{
		Name:        newIDFunc() + ext,
		ContentType: "image/" + format,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Size:        len(data),
	}
	if err = core.WriteFile(filepath.Join(s.dir, up.Name), data); err != nil {
		return Upload{}, errors.Wrap(err, "writing image")
	}
	return up, nil
}

// Validate accepts `data` only if the extension of `filename`, the sniffed content type
// and the decoded format all agree on PNG or JPEG. Images above MaxPixels are refused before decoding.
func Validate(filename string, data []byte) (image.Image, string, error) {
	want, ok := extensions[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, "", invalid(ErrInvalidImage)
	}
	if sniffed := http.DetectContentType(data); sniffed != "image/"+want {
		return nil, "", invalid(ErrInvalidImage)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != want {
		return nil, "", invalid(ErrInvalidImage)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", invalid(ErrInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", invalid(ErrImageTooLarge)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil || format != want {
		return nil, "", invalid(ErrInvalidImage)
	}
	return img, format, nil
}

// Downscale resizes `img` to `width` pixels wide, keeping its aspect ratio.
func Downscale(img image.Image, width int) image.Image {
	b := img.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if format == formatJPEG {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, img)
	}
	return buf.Bytes(), err
}

// Open returns the stored bytes and content type of image `name`.
func (s *Store) Open(name string) ([]byte, string, error) {
	if !nameRegex.MatchString(name) {
		return nil, "", ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", errors.Wrap(err, "reading image")
	}
	return data, http.DetectContentType(data), nil
}

// Load reads image `name` for rendering.
func (s *Store) Load(ctx context.Context, name string) (document.Image, error) {
	data, _, err := s.Open(name)
	if err != nil {
		return document.Image{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return document.Image{}, errors.Wrapf(err, "decoding %s", name)
	}
	return document.Image{
		Name:     name,
		Data:     data,
		Format:   format,
		PxWidth:  cfg.Width,
		PxHeight: cfg.Height,
	}, nil
}
