// Package qr genera códigos QR PNG con skip2/go-qrcode.
package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	appcheckout "github.com/jhoicas/veloce-moto-api/internal/application/checkout"
)

var _ appcheckout.QRGenerator = (*Encoder)(nil)

// Encoder genera PNG cuadrados de Size píxeles con corrección de errores media.
type Encoder struct {
	Size int
}

// NewEncoder construye el encoder; size <= 0 usa 256.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = 256
	}
	return &Encoder{Size: size}
}

// PNG codifica content.
func (e *Encoder) PNG(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, e.Size)
	if err != nil {
		return nil, fmt.Errorf("qr: codificar: %w", err)
	}
	return png, nil
}
