package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"regexp"
	"strings"

	"github.com/smartshop/backend/internal/domain"
)

// dataURLPrefix matches "data:image/jpeg;base64," style prefixes
var dataURLPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// DecodeDataURL strips an optional data-URL prefix and base64-decodes the
// raw image bytes. Validation that the bytes are a decodable image happens
// in Decode.
func DecodeDataURL(dataURL string) ([]byte, error) {
	payload := dataURL
	if strings.HasPrefix(payload, "data:") {
		loc := dataURLPrefix.FindStringIndex(payload)
		if loc == nil {
			return nil, fmt.Errorf("%w: malformed data URL", domain.ErrInvalidImage)
		}
		payload = payload[loc[1]:]
	}

	if payload == "" {
		return nil, fmt.Errorf("%w: empty image data", domain.ErrInvalidImage)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return raw, nil
}

// Decode parses JPEG or PNG bytes into an image.
func Decode(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return img, nil
}

// CropRegion extracts the bbox region from the frame with proportional
// padding on each side, clamped to the frame bounds. The crop is copied
// into a fresh image so callers never alias the source frame.
func CropRegion(img image.Image, bbox [4]float64, padding float64) image.Image {
	bounds := img.Bounds()

	boxWidth := bbox[2] - bbox[0]
	boxHeight := bbox[3] - bbox[1]

	x1 := int(bbox[0] - boxWidth*padding)
	y1 := int(bbox[1] - boxHeight*padding)
	x2 := int(bbox[2] + boxWidth*padding)
	y2 := int(bbox[3] + boxHeight*padding)

	rect := image.Rect(x1, y1, x2, y2).Intersect(bounds)
	if rect.Empty() {
		rect = bounds
	}

	crop := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(crop, crop.Bounds(), img, rect.Min, draw.Src)
	return crop
}

// EncodeJPEG encodes an image to JPEG bytes at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
