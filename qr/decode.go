package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/webp"
)

// svgScale is the number of pixels per SVG user unit used when an SVG is
// rasterised. One user unit is one module for the SVGs written by WriteSVG.
const svgScale = 8

// ErrNoSymbol is returned when no QR code could be found in an image.
var ErrNoSymbol = errors.New("no QR code found in image")

// Decode reads the text of the QR code in img.
func Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("creating bitmap: %w", err)
	}

	result, err := zxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", errors.Join(ErrNoSymbol, err)
	}
	return result.GetText(), nil
}

// DecodeFile opens an image file and decodes the QR code in it. Files with an
// .svg extension are rasterised first; other formats go through image.Decode
// (PNG, JPEG, GIF and WebP are registered).
func DecodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image file: %w", err)
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		img, err = RasterizeSVG(bytes.NewReader(data), svgScale, color.White)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	return Decode(img)
}

// RasterizeSVG renders an SVG document at scale pixels per user unit of its
// viewBox. The canvas is filled with bg first; a nil bg leaves it transparent.
func RasterizeSVG(r io.Reader, scale float64, bg color.Color) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	w := int(icon.ViewBox.W * scale)
	h := int(icon.ViewBox.H * scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("parse svg: empty viewBox")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}
