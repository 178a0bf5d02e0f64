package qr

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts "#rrggbb", "#rrggbbaa", "#rgb" or an SVG/CSS colour name
// such as "black" or "navy".
func ParseColor(s string) (color.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[v]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(v, "#")
	if !ok {
		return color.RGBA{}, &InvalidConfigError{Field: "color", Value: s, Reason: "nom ou #rrggbb attendu"}
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, &InvalidConfigError{Field: "color", Value: s, Reason: "nom ou #rrggbb attendu"}
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, &InvalidConfigError{Field: "color", Value: s, Reason: fmt.Sprintf("hexadécimal invalide: %v", err)}
	}
	// Non-premultiplied on input; color.RGBA must be premultiplied.
	nrgba := color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}
	return color.RGBAModel.Convert(nrgba).(color.RGBA), nil
}
