// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeWelcome           EmailType = "welcome"
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderStatusUpdate EmailType = "order_status_update"
	EmailTypeContactMessage    EmailType = "contact_message"
	EmailTypeTest              EmailType = "test"
)

// Email represents an email message
type Email struct {
	To          []string               `json:"to"`
	ReplyTo     string                 `json:"reply_to,omitempty"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName  string `json:"site_name"`
	SiteURL   string `json:"site_url"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Year      int    `json:"year"`
}

// WelcomeEmailData contains data for welcome email
type WelcomeEmailData struct {
	EmailTemplateData
	OrdersURL string `json:"orders_url"`
}

// OrderConfirmationData contains data for order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderNumber         string      `json:"order_number"`
	OrderDate           string      `json:"order_date"`
	OrderURL            string      `json:"order_url"`
	Items               []OrderItem `json:"items"`
	Subtotal            string      `json:"subtotal"`
	DeliveryFee         string      `json:"delivery_fee"`
	Total               string      `json:"total"`
	DeliveryMethod      string      `json:"delivery_method"`
	DeliveryAddress     string      `json:"delivery_address"`
	SpecialInstructions string      `json:"special_instructions"`
}

// OrderItem is a rendered order line
type OrderItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// OrderStatusUpdateData contains data for order status update email
type OrderStatusUpdateData struct {
	EmailTemplateData
	OrderNumber string `json:"order_number"`
	OrderURL    string `json:"order_url"`
	StatusLabel string `json:"status_label"`
	Notes       string `json:"notes"`
	UpdatedAt   string `json:"updated_at"`
}

// ContactMessageData is a message sent through the contact form
type ContactMessageData struct {
	EmailTemplateData
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// GetBaseTemplateData returns base template data
func GetBaseTemplateData(siteName, siteURL, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:  siteName,
		SiteURL:   siteURL,
		UserName:  userName,
		UserEmail: userEmail,
		Year:      time.Now().Year(),
	}
}
