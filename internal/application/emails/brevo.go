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

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender `json:"sender"`
	To          []BrevoTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Invitation is what the invitation e-mail needs to know about a guest.
type Invitation struct {
	Email     string
	Name      string
	Code      string
	Link      string
	MaxGuests int
}

// BrevoClient sends emails via the Brevo (Sendinblue) API. An empty APIKey makes every send a no-op.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Endpoint string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "no-reply@invitacion.app"
}

func (c *BrevoClient) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return brevoAPI
}

func (c *BrevoClient) send(ctx context.Context, to BrevoTo, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	bodyBytes, err := json.Marshal(BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Invitación"},
		To:          []BrevoTo{to},
		Subject:     subject,
		HTMLContent: html,
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

// SendInvitation mails the guest their code and personal RSVP link.
func (c *BrevoClient) SendInvitation(ctx context.Context, inv Invitation) error {
	if c.APIKey == "" || inv.Email == "" {
		return nil
	}
	return c.send(ctx, BrevoTo{Email: inv.Email, Name: inv.Name}, "Estás invitado", EmailLayout(invitationContent(inv)))
}

func invitationContent(inv Invitation) string {
	name := inv.Name
	if name == "" {
		name = "invitado"
	}
	seats := "1 lugar"
	if inv.MaxGuests != 1 {
		seats = fmt.Sprintf("%d lugares", inv.MaxGuests)
	}
	return fmt.Sprintf(`
    <h1>¡Hola, %s!</h1>
    <p>Nos encantaría contar contigo. Tu invitación incluye <strong>%s</strong>.</p>
    <p>Tu código de invitación es:</p>
    <p class="code">%s</p>
    <center>
      <a href="%s" class="button">Confirmar asistencia</a>
    </center>
`, EscapeHTML(name), seats, EscapeHTML(inv.Code), inv.Link)
}
