package mailer

import "fmt"

// ReceiptJob is the JSON payload put on the RabbitMQ receipts queue when
// a donation completes.
type ReceiptJob struct {
	To               string `json:"to"`
	UserName         string `json:"user_name"`
	OrganizationName string `json:"organization_name"`
	Amount           string `json:"amount"` // formatted dollars, e.g. "14.07"
	DonationID       int64  `json:"donation_id"`
	CompletedAt      string `json:"completed_at"` // RFC3339
}

// Render produces the subject, text and HTML bodies for a receipt.
func (j ReceiptJob) Render() (subject, text, html string) {
	subject = fmt.Sprintf("Your $%s donation to %s", j.Amount, j.OrganizationName)
	text = fmt.Sprintf(
		"Hi %s,\n\nThanks for your donation of $%s to %s (receipt #%d, completed %s).\n\nYour spare change is making a difference.\n",
		j.UserName, j.Amount, j.OrganizationName, j.DonationID, j.CompletedAt,
	)
	html = fmt.Sprintf(
		`<p>Hi %s,</p><p>Thanks for your donation of <strong>$%s</strong> to <strong>%s</strong> (receipt #%d, completed %s).</p><p>Your spare change is making a difference.</p>`,
		j.UserName, j.Amount, j.OrganizationName, j.DonationID, j.CompletedAt,
	)
	return subject, text, html
}
