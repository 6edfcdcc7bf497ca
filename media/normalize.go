package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

const jpegQuality = 90

// Normalized is a deliverable asset: either a canonical JPEG re-encode, or
// the original bytes packaged as a document when re-encoding was impossible.
type Normalized struct {
	Data     []byte
	Filename string
	Document bool
}

var urlExtensionPattern = regexp.MustCompile(`\.([a-z0-9]{3,4})(?:\?|$)`)

// detectImageFormat reads the magic bytes and returns the image format.
func detectImageFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", errors.New("data too short to determine format")
	}

	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg", nil
	}
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "png", nil
	}
	if string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a" {
		return "gif", nil
	}
	if string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "webp", nil
	}
	if data[0] == 'B' && data[1] == 'M' {
		return "bmp", nil
	}

	return "", errors.New("unknown image format")
}

// Normalize converts downloaded image bytes to the canonical deliverable
// form: first frame only, flattened to opaque RGB, JPEG at quality 90. Any
// decode or encode failure falls back to packaging the original bytes as a
// document with an extension inferred from the source URL.
func Normalize(asset *Asset, index int) Normalized {
	data, err := reencodeJPEG(asset.Bytes)
	if err != nil {
		log.Printf("[Media] JPEG conversion failed for %s: %v", asset.SourceURL, err)
		return passthrough(asset, index)
	}
	return Normalized{
		Data:     data,
		Filename: fmt.Sprintf("photo_%d.jpg", index),
	}
}

func reencodeJPEG(imgBytes []byte) ([]byte, error) {
	if len(imgBytes) == 0 {
		return nil, errors.New("empty image data")
	}

	format, err := detectImageFormat(imgBytes)
	if err != nil {
		return nil, err
	}

	var img image.Image
	reader := bytes.NewReader(imgBytes)

	switch format {
	case "jpeg":
		img, err = jpeg.Decode(reader)
	case "png":
		img, err = png.Decode(reader)
	case "gif":
		// gif.Decode yields the first frame of an animation.
		img, err = gif.Decode(reader)
	case "webp":
		img, err = webp.Decode(reader)
	case "bmp":
		img, err = bmp.Decode(reader)
	default:
		return nil, errors.New("unsupported image format: " + format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flatten(img), imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten composites alpha-bearing and palette images onto a white background
// so the JPEG encode always sees plain opaque RGB.
func flatten(img image.Image) image.Image {
	if _, alreadyOpaque := img.(*image.YCbCr); alreadyOpaque {
		return img
	}
	bounds := img.Bounds()
	rgb := image.NewRGBA(bounds)
	draw.Draw(rgb, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(rgb, bounds, img, bounds.Min, draw.Over)
	return rgb
}

// passthrough packages the original bytes verbatim as a document.
func passthrough(asset *Asset, index int) Normalized {
	ext := ".jpg"
	if m := urlExtensionPattern.FindStringSubmatch(strings.ToLower(asset.SourceURL)); m != nil {
		ext = "." + m[1]
	}
	return Normalized{
		Data:     asset.Bytes,
		Filename: fmt.Sprintf("photo_%d%s", index, ext),
		Document: true,
	}
}
