package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches the Brevo API v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoContact   `json:"sender"`
	To          []BrevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	ReplyTo     *BrevoContact  `json:"replyTo,omitempty"`
}

type BrevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender sends transactional emails. A nil Sender means email is disabled.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, firstName string) error
	SendNotification(ctx context.Context, toEmail, firstName, title, body string) error
}

// BrevoClient sends emails via the Brevo (Sendinblue) API.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Endpoint string // defaults to the public Brevo API
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@homescout.app"
}

func (c *BrevoClient) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return brevoAPI
}

func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	bodyBytes, err := json.Marshal(BrevoSendRequest{
		Sender:      BrevoContact{Email: c.from(), Name: "HomeScout"},
		To:          []BrevoContact{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
		ReplyTo:     &BrevoContact{Email: "support@homescout.app", Name: "HomeScout Support"},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome sends the welcome email after registration.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, firstName string) error {
	if firstName == "" {
		firstName = "there"
	}
	content := fmt.Sprintf(`
    <h1>Welcome to HomeScout, %s!</h1>
    <p>Your account is ready. Browse verified homes to buy, rent or book, save the ones you like, and message owners directly.</p>
    <p>To list your own property, complete identity verification from your profile first.</p>
    <p>&mdash; The HomeScout Team</p>
`, EscapeHTML(firstName))
	return c.send(ctx, toEmail, "Welcome to HomeScout", EmailLayout(content))
}

// SendNotification mirrors an in-app notification (listing or KYC decision) by email.
func (c *BrevoClient) SendNotification(ctx context.Context, toEmail, firstName, title, body string) error {
	if firstName == "" {
		firstName = "there"
	}
	content := fmt.Sprintf(`
    <h1>%s</h1>
    <p>Hi %s,</p>
    <p>%s</p>
    <p>Open the HomeScout app to see the details.</p>
    <p>&mdash; The HomeScout Team</p>
`, EscapeHTML(title), EscapeHTML(firstName), EscapeHTML(body))
	return c.send(ctx, toEmail, title, EmailLayout(content))
}
