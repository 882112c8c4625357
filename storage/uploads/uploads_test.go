package uploads

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/guidebook/core"
)

func picture(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, picture(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, picture(w, h), nil))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, picture(4, 4), nil))
	return buf.Bytes()
}

// pngHeader returns a PNG made of a signature and an IHDR chunk declaring a w x h 8-bit gray image.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth; color type, compression, filter and interlace are 0

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func newStore(t *testing.T, maxWidth int) *Store {
	return &Store{dir: t.TempDir(), maxBytes: 1 << 20, maxWidth: maxWidth}
}

func TestStore_Save(t *testing.T) {
	defer func(orig func() string) { newIDFunc = orig }(newIDFunc)
	newIDFunc = func() string { return "0f8fad5b-d9cb-469f-a165-70867728950e" }

	tests := []struct {
		name     string
		filename string
		data     func(t *testing.T) []byte
		wantName string
		wantType string
		wantW    int
		wantH    int
		wantErr  error
	}{
		{name: "png", filename: "map.PNG", data: func(t *testing.T) []byte { return pngBytes(t, 40, 30) }, wantName: "0f8fad5b-d9cb-469f-a165-70867728950e.png", wantType: "image/png", wantW: 40, wantH: 30},
		{name: "jpeg", filename: "cover.jpeg", data: func(t *testing.T) []byte { return jpegBytes(t, 20, 10) }, wantName: "0f8fad5b-d9cb-469f-a165-70867728950e.jpg", wantType: "image/jpeg", wantW: 20, wantH: 10},
		{name: "downscaled", filename: "wide.png", data: func(t *testing.T) []byte { return pngBytes(t, 200, 100) }, wantName: "0f8fad5b-d9cb-469f-a165-70867728950e.png", wantType: "image/png", wantW: 100, wantH: 50},
		{name: "gif extension", filename: "anim.gif", data: gifBytes, wantErr: ErrInvalidImage},
		{name: "gif content", filename: "anim.png", data: gifBytes, wantErr: ErrInvalidImage},
		{name: "text content", filename: "notes.png", data: func(t *testing.T) []byte { return []byte("not an image at all") }, wantErr: ErrInvalidImage},
		{name: "jpeg named png", filename: "photo.png", data: func(t *testing.T) []byte { return jpegBytes(t, 8, 8) }, wantErr: ErrInvalidImage},
		{name: "truncated png", filename: "broken.png", data: func(t *testing.T) []byte { return pngBytes(t, 20, 20)[:40] }, wantErr: ErrInvalidImage},
		{name: "too large", filename: "huge.png", data: func(t *testing.T) []byte { return make([]byte, 2<<20) }, wantErr: ErrImageTooLarge},
		{name: "too many pixels", filename: "bomb.png", data: func(t *testing.T) []byte { return pngHeader(20000, 20000) }, wantErr: ErrImageTooLarge},
		{name: "header only", filename: "small.png", data: func(t *testing.T) []byte { return pngHeader(10, 10) }, wantErr: ErrInvalidImage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore(t, 100)
			up, err := store.Save(context.Background(), tc.filename, tc.data(t))

			if tc.wantErr != nil {
				require.Error(t, err)
				require.True(t, core.IsValidationError(err))
				verr := errors.Cause(err).(*core.ValidationError)
				assert.Equal(t, tc.wantErr, verr.Err)
				assert.Equal(t, map[string]string{"file": tc.wantErr.Error()}, verr.FieldMap())

				files, rerr := os.ReadDir(store.dir)
				require.NoError(t, rerr)
				assert.Empty(t, files, "nothing is written")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantName, up.Name)
			assert.Equal(t, tc.wantType, up.ContentType)
			assert.Equal(t, tc.wantW, up.Width)
			assert.Equal(t, tc.wantH, up.Height)

			stored, err := os.ReadFile(filepath.Join(store.dir, up.Name))
			require.NoError(t, err)
			assert.Len(t, stored, up.Size)
		})
	}
}

func TestStore_Load(t *testing.T) {
	store := newStore(t, 0)
	up, err := store.Save(context.Background(), "map.png", pngBytes(t, 64, 32))
	require.NoError(t, err)

	img, err := store.Load(context.Background(), up.Name)
	require.NoError(t, err)
	assert.Equal(t, up.Name, img.Name)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 64, img.PxWidth)
	assert.Equal(t, 32, img.PxHeight)
	assert.NotEmpty(t, img.Data)

	data, contentType, err := store.Open(up.Name)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, img.Data, data)

	for _, name := range []string{"missing.png", "../config/.env.dev", "0f8fad5b-d9cb-469f-a165-70867728950e.png"} {
		_, err = store.Load(context.Background(), name)
		assert.Equal(t, ErrNotFound, errors.Cause(err), name)
	}
}

func TestDownscale(t *testing.T) {
	img := Downscale(picture(300, 120), 150)
	assert.Equal(t, image.Rect(0, 0, 150, 60), img.Bounds())

	img = Downscale(picture(1000, 1), 10)
	assert.Equal(t, image.Rect(0, 0, 10, 1), img.Bounds())
}
