// Package avatar normalizes uploaded profile images: it accepts jpg/jpeg/
// png uploads, scales them to a fixed square and re-encodes them as PNG so
// the store only ever holds one format at one size.
package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Size is the edge length of every stored avatar.
const Size = 250

// ErrUnsupportedFormat is returned for uploads whose filename is not a
// recognized image extension.
var ErrUnsupportedFormat = errors.New("please upload an image (jpg, jpeg or png)")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Normalize validates the upload by filename extension, decodes it, crops
// and scales it to Size x Size and returns the PNG encoding.
func Normalize(filename string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, Size, Size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
