package gltfx

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/chai2010/tiff"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

const (
	mimePNG  = "image/png"
	mimeJPEG = "image/jpeg"
	mimeWebP = "image/webp"
)

// mapImage is a texture map ready to be stored in the document.
type mapImage struct {
	Data     []byte
	MimeType string
}

// loadMap reads the image at path and returns it in an encoding glTF can
// carry. png and jpeg pass through untouched unless format asks otherwise;
// everything else is decoded and re-encoded.
func loadMap(path string, format string) (*mapImage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read map %s", path)
	}
	ft := imageType(path, raw)

	switch {
	case format == MapFormatKeep && ft == "png":
		return &mapImage{Data: raw, MimeType: mimePNG}, nil
	case format == MapFormatKeep && ft == "jpeg":
		return &mapImage{Data: raw, MimeType: mimeJPEG}, nil
	case format == MapFormatPNG && ft == "png":
		return &mapImage{Data: raw, MimeType: mimePNG}, nil
	}

	img, err := readImage(bytes.NewReader(raw), ft)
	if err != nil {
		return nil, errors.Wrapf(err, "decode map %s", path)
	}
	return encodeMap(img, format)
}

func encodeMap(img image.Image, format string) (*mapImage, error) {
	var buf bytes.Buffer
	if format == MapFormatWebP {
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, errors.Wrap(err, "encode webp")
		}
		return &mapImage{Data: buf.Bytes(), MimeType: mimeWebP}, nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return &mapImage{Data: buf.Bytes(), MimeType: mimePNG}, nil
}

// imageType sniffs the registered decoders first and falls back to the file
// extension, since tga has no magic number.
func imageType(path string, raw []byte) string {
	if _, ft, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil && ft != "tga" {
		return ft
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func readImage(rd io.Reader, ft string) (image.Image, error) {
	switch ft {
	case "jpeg", "jpg":
		return jpeg.Decode(rd)
	case "png":
		return png.Decode(rd)
	case "gif":
		return gif.Decode(rd)
	case "bmp":
		return bmp.Decode(rd)
	case "tif", "tiff":
		return tiff.Decode(rd)
	case "tga":
		return tga.Decode(rd)
	default:
		return nil, errors.Errorf("unknown image format %q", ft)
	}
}

// mimeFromPath guesses the mime type of a map that is referenced by URI.
func mimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return mimePNG
	case ".jpg", ".jpeg":
		return mimeJPEG
	case ".webp":
		return mimeWebP
	default:
		return ""
	}
}
