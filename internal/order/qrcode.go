package order

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders a PNG QR code linking to an order's status page.
type QRGenerator struct {
	baseURL string
	size    int
}

func NewQRGenerator(baseURL string) *QRGenerator {
	return &QRGenerator{baseURL: strings.TrimRight(baseURL, "/"), size: 256}
}

func (g *QRGenerator) URL(orderNumber string) string {
	return g.baseURL + "/orders/" + url.PathEscape(orderNumber)
}

func (g *QRGenerator) PNG(orderNumber string) ([]byte, error) {
	return qrcode.Encode(g.URL(orderNumber), qrcode.Medium, g.size)
}
