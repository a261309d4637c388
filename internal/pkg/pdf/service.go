// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/order"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	OrderNumber         string
	OrderDate           string
	StatusLabel         string
	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	DeliveryMethod      string
	DeliveryAddress     string
	SpecialInstructions string
	Lines               []ReceiptLine
	Subtotal            string
	DeliveryFee         string
	Total               string
	Business            BusinessInfo
}

// ReceiptLine is one rendered order item
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

// BusinessInfo is the bakery letterhead
type BusinessInfo struct {
	Name    string
	Tagline string
	Address string
	Phone   string
	Email   string
}

// GenerateReceipt renders an order receipt as a PDF
func (s *Service) GenerateReceipt(o *order.Order, site *settings.WebsiteSettings) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderReceiptHTML(o, site)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterCenter.Set(o.OrderNumber)
	page.FooterFontSize.Set(8)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderReceiptHTML renders the receipt markup that GenerateReceipt prints
func (s *Service) RenderReceiptHTML(o *order.Order, site *settings.WebsiteSettings) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, s.receiptData(o, site)); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) receiptData(o *order.Order, site *settings.WebsiteSettings) ReceiptData {
	symbol := s.config.App.CurrencySymbol

	lines := make([]ReceiptLine, len(o.Items))
	for i, item := range o.Items {
		lines[i] = ReceiptLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Format(symbol),
			Total:     item.TotalPrice.Format(symbol),
		}
	}

	data := ReceiptData{
		OrderNumber:         o.OrderNumber,
		OrderDate:           o.CreatedAt.Format("January 2, 2006 15:04"),
		StatusLabel:         o.StatusLabel(),
		CustomerName:        o.CustomerName,
		CustomerEmail:       o.CustomerEmail,
		CustomerPhone:       o.CustomerPhone,
		DeliveryMethod:      string(o.DeliveryMethod),
		DeliveryAddress:     o.DeliveryAddress,
		SpecialInstructions: o.SpecialInstructions,
		Lines:               lines,
		Subtotal:            o.Subtotal.Format(symbol),
		DeliveryFee:         o.DeliveryFee.Format(symbol),
		Total:               o.TotalAmount.Format(symbol),
	}
	if site != nil {
		data.Business = BusinessInfo{
			Name:    site.BusinessName,
			Tagline: site.Tagline,
			Address: site.Address,
			Phone:   site.Phone,
			Email:   site.Email,
		}
	}
	return data
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.OrderNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #f3d9df; padding-bottom: 12px; margin-bottom: 20px; }
        .business-name { font-size: 24px; font-weight: bold; color: #b5485d; }
        .muted { color: #777; font-size: 12px; }
        table { width: 100%; border-collapse: collapse; margin-top: 16px; }
        th, td { padding: 6px 4px; border-bottom: 1px solid #eee; text-align: left; }
        .amount { text-align: right; }
        .total td { font-weight: bold; border-top: 2px solid #333; }
    </style>
</head>
<body>
    <div class="header">
        <div class="business-name">{{.Business.Name}}</div>
        {{if .Business.Tagline}}<div class="muted">{{.Business.Tagline}}</div>{{end}}
        <div class="muted">{{.Business.Address}} {{.Business.Phone}} {{.Business.Email}}</div>
    </div>

    <h2>Receipt {{.OrderNumber}}</h2>
    <p class="muted">Placed {{.OrderDate}} &middot; {{.StatusLabel}}</p>

    <p>
        <strong>{{.CustomerName}}</strong><br>
        {{.CustomerEmail}}<br>
        {{.CustomerPhone}}
    </p>
    <p>
        {{if eq .DeliveryMethod "delivery"}}Delivery to {{.DeliveryAddress}}{{else}}Collection from the bakery{{end}}
    </p>
    {{if .SpecialInstructions}}<p><em>{{.SpecialInstructions}}</em></p>{{end}}

    <table>
        <thead>
            <tr><th>Item</th><th>Qty</th><th class="amount">Price</th><th class="amount">Total</th></tr>
        </thead>
        <tbody>
            {{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td class="amount">{{.UnitPrice}}</td><td class="amount">{{.Total}}</td></tr>
            {{end}}
            <tr><td colspan="3">Subtotal</td><td class="amount">{{.Subtotal}}</td></tr>
            <tr><td colspan="3">Delivery</td><td class="amount">{{.DeliveryFee}}</td></tr>
            <tr class="total"><td colspan="3">Total</td><td class="amount">{{.Total}}</td></tr>
        </tbody>
    </table>
</body>
</html>`
