// internal/pkg/email/templates.go
package email

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #fdf6f0;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 24px; border-radius: 8px;">
        <h1 style="color: #b5485d;">{{.SiteName}}</h1>
        {{template "body" .}}
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}</p>
    </div>
</body>
</html>{{end}}`

var bodyTemplates = map[string]string{
	"welcome": `{{define "body"}}
<p>Hello {{.UserName}},</p>
<p>Thanks for creating an account with {{.SiteName}}. You can follow your orders at
<a href="{{.OrdersURL}}">{{.OrdersURL}}</a>.</p>
{{end}}`,

	"order_confirmation": `{{define "body"}}
<p>Hello {{.UserName}},</p>
<p>We have received your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
<table style="width: 100%; border-collapse: collapse;">
{{range .Items}}<tr><td>{{.Name}} &times; {{.Quantity}}</td><td style="text-align: right;">{{.Total}}</td></tr>
{{end}}<tr><td>Subtotal</td><td style="text-align: right;">{{.Subtotal}}</td></tr>
<tr><td>Delivery</td><td style="text-align: right;">{{.DeliveryFee}}</td></tr>
<tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>{{.Total}}</strong></td></tr>
</table>
<p>Delivery method: {{.DeliveryMethod}}{{if .DeliveryAddress}} to {{.DeliveryAddress}}{{end}}</p>
{{if .SpecialInstructions}}<p>Your notes: {{.SpecialInstructions}}</p>{{end}}
<p>Track your order at <a href="{{.OrderURL}}">{{.OrderURL}}</a>.</p>
{{end}}`,

	"order_status_update": `{{define "body"}}
<p>Hello {{.UserName}},</p>
<p>Your order <strong>{{.OrderNumber}}</strong> is now: <strong>{{.StatusLabel}}</strong>.</p>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
<p>Updated {{.UpdatedAt}}. Track your order at <a href="{{.OrderURL}}">{{.OrderURL}}</a>.</p>
{{end}}`,

	"contact_message": `{{define "body"}}
<p>New message from the website contact form.</p>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;{{if .Phone}}, {{.Phone}}{{end}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p style="white-space: pre-wrap;">{{.Message}}</p>
{{end}}`,
}
