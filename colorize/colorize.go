// Package colorize renders a URL as a branded QR code: dark modules are
// painted with a vertical colour gradient on a transparent background and a
// logo is composited at the centre.
//
// Render is a pure function of its inputs, so the web layer and tests can
// call it without any UI state.
package colorize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
	_ "golang.org/x/image/webp"

	"github.com/openclaw/qrcode/qr"
	"github.com/openclaw/qrcode/urlcheck"
)

// Presentation constants for the branded code. They are not user options:
// level H leaves room for the logo to cover part of the symbol.
const (
	moduleSize = 10
	border     = 2
	threshold  = 128
)

// Options carries the gradient and logo settings.
type Options struct {
	Start     color.RGBA // colour at the top row
	End       color.RGBA // colour at the bottom row
	Alpha     uint8      // alpha of every painted module pixel
	LogoRatio float64    // logo box side as a fraction of the image width
	Log       *slog.Logger
}

// DefaultOptions returns the house gradient, deep blue to magenta, with an
// opaque fill and a logo box of 22% of the width.
func DefaultOptions() Options {
	return Options{
		Start:     color.RGBA{R: 0x0f, G: 0x4c, B: 0x81, A: 0xff},
		End:       color.RGBA{R: 0xc2, G: 0x18, B: 0x5b, A: 0xff},
		Alpha:     0xff,
		LogoRatio: 0.22,
	}
}

// Render validates url, encodes it at level H and returns the gradient
// coloured symbol with logo composited on top. A nil or undecodable logo is
// skipped; only an invalid URL or an encoder failure is an error.
func Render(url string, logo []byte, opts Options) (image.Image, error) {
	if err := urlcheck.Validate(url); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	grid, err := qr.Encode(url, qrcode.Highest)
	if err != nil {
		return nil, err
	}
	base, err := qr.Raster(grid, qr.Style{
		ModuleSize: moduleSize,
		Border:     border,
		Foreground: color.Black,
		Background: color.White,
	})
	if err != nil {
		return nil, err
	}

	out := Gradient(base, opts.Start, opts.End, opts.Alpha)

	if len(logo) == 0 {
		return out, nil
	}
	mark, err := decodeLogo(logo)
	if err != nil {
		log.Debug("logo skipped", "error", err)
		return out, nil
	}
	return Overlay(out, mark, opts.LogoRatio), nil
}

// Gradient converts src to luminance and paints every pixel darker than the
// threshold with start*(1-ratio) + end*ratio, where ratio is row/height.
// All other pixels are left fully transparent.
func Gradient(src image.Image, start, end color.RGBA, alpha uint8) *image.NRGBA {
	b := src.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, src, b.Min, draw.Src)

	out := image.NewNRGBA(b)
	height := float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		ratio := float64(y-b.Min.Y) / height
		c := color.NRGBA{
			R: lerp(start.R, end.R, ratio),
			G: lerp(start.G, end.G, ratio),
			B: lerp(start.B, end.B, ratio),
			A: alpha,
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			if gray.GrayAt(x, y).Y < threshold {
				out.SetNRGBA(x, y, c)
			}
		}
	}
	return out
}

// Overlay scales logo to fit a square box of ratio*width while keeping its
// aspect ratio, and alpha-composites it at the centre of img.
func Overlay(img image.Image, logo image.Image, ratio float64) image.Image {
	b := img.Bounds()
	box := int(math.Round(float64(b.Dx()) * ratio))
	lw, lh := logo.Bounds().Dx(), logo.Bounds().Dy()
	if box <= 0 || lw == 0 || lh == 0 {
		return img
	}

	scale := math.Min(float64(box)/float64(lw), float64(box)/float64(lh))
	w := uint(math.Max(1, math.Round(float64(lw)*scale)))
	h := uint(math.Max(1, math.Round(float64(lh)*scale)))
	scaled := resize.Resize(w, h, logo, resize.Lanczos3)

	dc := gg.NewContextForImage(img)
	dc.DrawImageAnchored(scaled, b.Dx()/2, b.Dy()/2, 0.5, 0.5)
	return dc.Image()
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := qr.WritePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeLogo(data []byte) (image.Image, error) {
	if bytes.Contains(data[:min(len(data), 512)], []byte("<svg")) {
		img, err := qr.RasterizeSVG(bytes.NewReader(data), 1, nil)
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w", err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return img, nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a)*(1-t) + float64(b)*t))
}
