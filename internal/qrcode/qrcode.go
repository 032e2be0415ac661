package qrcode

import (
	"encoding/base64"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

const size = 256

// DataURL encodes content as a PNG QR code and returns it as a data: URL.
func DataURL(content string) (string, error) {
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to generate qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
