package whatsapp

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// QRCode renders the deep link as a PNG. Long orders may exceed QR capacity, which is an error.
func QRCode(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Low, qrSize)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	return png, nil
}

// Slip renders a one-page PDF order slip with the item list and a QR code of the link. The date
// is printed in the formatter's location, matching the chat message.
func (f *Formatter) Slip(c Checkout, o Order) ([]byte, error) {
	qrPNG, err := QRCode(c.URL)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Zander Store")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Código do pedido: %s", c.OrderID)))
	pdf.Ln(8)
	pdf.Cell(0, 10, "Data: "+f.slipStamp(c.CreatedAt))
	pdf.Ln(8)
	if o.Customer != nil {
		pdf.Cell(0, 10, tr(fmt.Sprintf("Cliente: %s (%s)", o.Customer.Name, o.Customer.Phone)))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	for _, it := range o.Items {
		line := fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		if it.Size != "" {
			line += " - Tamanho: " + it.Size
		}
		if it.Color != "" {
			line += " - Cor: " + it.Color
		}
		pdf.Cell(140, 8, tr(line))
		pdf.CellFormat(0, 8, "R$ "+it.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(140, 10, "Total")
	pdf.CellFormat(0, 10, "R$ "+o.Total.StringFixed(2), "", 0, "R", false, 0, "")

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("order slip: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Formatter) slipStamp(t time.Time) string {
	return f.local(t).Format(dateLayout + " " + timeLayout)
}
