package mailer

import (
	"bytes"
	"html/template"
	"time"

	"github.com/mariphil/foundation-site/internal/domain/donation"
)

const (
	ReceiptSubject = "Thank You for Your Donation!"
	ContactSubject = "New Contact Message"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #1EBD1E;">Thank You, {{.DonorName}}!</h1>
  <p>We are grateful for your generous donation of <strong>{{.Currency}} {{.Amount}}</strong>.</p>
  <p>Your support helps us continue our mission of transforming lives and building hope for children and families across the Philippines.</p>
  {{- if .Message}}
  <p><em>Your message: "{{.Message}}"</em></p>
  {{- end}}
  <hr style="border: 1px solid #e0e0e0; margin: 20px 0;" />
  <p><strong>Receipt Details:</strong></p>
  <ul>
    <li>Amount: {{.Currency}} {{.Amount}}</li>
    <li>Date: {{.Date}}</li>
    <li>Transaction ID: {{.TransactionID}}</li>
    <li>Type: {{.Type}}</li>
  </ul>
  <p>This receipt serves as confirmation of your tax-deductible donation.</p>
  <p>With gratitude,<br />Mariphil Foundation Inc.</p>
</div>
`))

var contactTmpl = template.Must(template.New("contact").Parse(`<h2>New Contact Message</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

type receiptData struct {
	DonorName     string
	Amount        string
	Currency      string
	Date          string
	TransactionID string
	Type          string
	Message       string
}

// Receipt renders the donor thank-you email for a recorded donation. The
// transaction id is the checkout session when known, else the payment reference.
func Receipt(d donation.Donation) (string, error) {
	data := receiptData{
		DonorName:     d.DonorName,
		Amount:        d.Amount.StringFixed(2),
		Currency:      d.Currency,
		Date:          d.CreatedAt.In(time.UTC).Format("January 2, 2006"),
		TransactionID: d.ExternalPaymentReference,
		Type:          d.TypeLabel(),
	}
	if d.CheckoutSessionID != "" {
		data.TransactionID = d.CheckoutSessionID
	}
	if d.Message != nil {
		data.Message = *d.Message
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ContactNotification renders the admin notification for a contact message.
func ContactNotification(name, email, message string) (string, error) {
	var buf bytes.Buffer
	err := contactTmpl.Execute(&buf, struct{ Name, Email, Message string }{name, email, message})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
