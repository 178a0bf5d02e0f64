package qr

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
)

// WriteSVG renders grid as a resolution-independent SVG document. All dark
// modules are drawn as one path in module units, so ModuleSize has no effect.
func WriteSVG(w io.Writer, grid [][]bool, style Style) error {
	if err := style.validate(); err != nil {
		return err
	}
	fg, bg := style.colors()

	side := len(grid) + 2*style.Border
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 %d %d" shape-rendering="crispEdges">`+"\n", side, side)
	fmt.Fprintf(bw, `<rect width="%d" height="%d" %s/>`+"\n", side, side, fillAttrs(bg))
	fmt.Fprintf(bw, `<path %s d="`, fillAttrs(fg))
	for y, row := range grid {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(bw, "M%d %dh1v1h-1z", x+style.Border, y+style.Border)
			}
		}
	}
	fmt.Fprint(bw, `"/>`+"\n")
	fmt.Fprint(bw, "</svg>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// fillAttrs renders c as SVG fill attributes. Alpha goes to fill-opacity.
func fillAttrs(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	attrs := fmt.Sprintf(`fill="#%02x%02x%02x"`, n.R, n.G, n.B)
	if n.A != 0xff {
		attrs += fmt.Sprintf(` fill-opacity="%.3f"`, float64(n.A)/0xff)
	}
	return attrs
}
