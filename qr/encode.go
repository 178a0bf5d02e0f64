package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Encode builds the symbol for content at the given level and returns its
// module grid without any quiet zone. grid[y][x] is true for a dark module.
// The encoder picks the smallest version that fits.
func Encode(content string, level qrcode.RecoveryLevel) ([][]bool, error) {
	code, err := qrcode.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	// Bitmap re-runs the encoder and must only be called once per QRCode.
	code.DisableBorder = true
	return code.Bitmap(), nil
}
