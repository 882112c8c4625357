package qrsvc

import (
	"bytes"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/pkg/errors"
)

// DefaultSize is the side of generated codes, in pixels.
const DefaultSize = 300

var ErrEmptyContent = errors.New("nothing to encode")

// Encoder renders QR codes as PNG images.
type Encoder struct {
	size int
}

func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{size: size}
}

// Encode returns a square PNG of the QR code for content, using medium error correction.
func (enc *Encoder) Encode(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr code")
	}
	code, err = barcode.Scale(code, enc.size, enc.size)
	if err != nil {
		return nil, errors.Wrap(err, "scaling qr code")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, errors.Wrap(err, "writing qr png")
	}
	return buf.Bytes(), nil
}
