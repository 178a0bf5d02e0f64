package qr

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Style controls how a module grid is drawn.
type Style struct {
	ModuleSize int // pixels per module, raster only
	Border     int // quiet-zone width in modules on each side
	Foreground color.Color
	Background color.Color
}

// DefaultStyle matches the command-line defaults: 10 px modules, a 4 module
// quiet zone, black on white.
func DefaultStyle() Style {
	return Style{
		ModuleSize: 10,
		Border:     4,
		Foreground: color.Black,
		Background: color.White,
	}
}

// maxSide bounds the side of a rendered image, in pixels for rasters and
// in modules for the quiet zone.
const maxSide = 1 << 14

func (s Style) validate() error {
	if s.ModuleSize < 1 || s.ModuleSize > maxSide {
		return &InvalidConfigError{Field: "box-size", Value: fmt.Sprint(s.ModuleSize), Reason: fmt.Sprintf("doit être entre 1 et %d", maxSide)}
	}
	if s.Border < 0 || s.Border > maxSide {
		return &InvalidConfigError{Field: "border", Value: fmt.Sprint(s.Border), Reason: fmt.Sprintf("doit être entre 0 et %d", maxSide)}
	}
	return nil
}

func (s Style) colors() (fg, bg color.Color) {
	fg, bg = s.Foreground, s.Background
	if fg == nil {
		fg = color.Black
	}
	if bg == nil {
		bg = color.White
	}
	return fg, bg
}

// Raster draws grid into a two-colour paletted image of side
// (len(grid) + 2*Border) * ModuleSize pixels.
func Raster(grid [][]bool, style Style) (*image.Paletted, error) {
	if err := style.validate(); err != nil {
		return nil, err
	}
	fg, bg := style.colors()

	n := len(grid)
	side := (n + 2*style.Border) * style.ModuleSize
	if side > maxSide {
		return nil, &InvalidConfigError{
			Field:  "box-size",
			Value:  fmt.Sprint(style.ModuleSize),
			Reason: fmt.Sprintf("image de %d px de côté, maximum %d", side, maxSide),
		}
	}
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{bg, fg})
	// Index 0 is the background, so the fresh image is already blank.

	offset := style.Border * style.ModuleSize
	for y, row := range grid {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := offset + x*style.ModuleSize
			y0 := offset + y*style.ModuleSize
			for py := y0; py < y0+style.ModuleSize; py++ {
				line := img.Pix[py*img.Stride:]
				for px := x0; px < x0+style.ModuleSize; px++ {
					line[px] = 1
				}
			}
		}
	}
	return img, nil
}

// WritePNG encodes img as a PNG with the best compression level. Output is
// deterministic for identical input.
func WritePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
