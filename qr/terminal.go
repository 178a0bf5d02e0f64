package qr

import (
	"io"

	"github.com/mdp/qrterminal/v3"
	"github.com/skip2/go-qrcode"
	rscqr "rsc.io/qr"
)

var terminalLevels = map[qrcode.RecoveryLevel]rscqr.Level{
	qrcode.Low:     rscqr.L,
	qrcode.Medium:  rscqr.M,
	qrcode.High:    rscqr.Q,
	qrcode.Highest: rscqr.H,
}

// PrintTerminal draws content as a QR code made of block characters, for a
// quick scan straight from the terminal.
func PrintTerminal(w io.Writer, content string, level qrcode.RecoveryLevel, border int) {
	qrterminal.GenerateWithConfig(content, qrterminal.Config{
		Level:     terminalLevels[level],
		Writer:    w,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: border,
	})
}
