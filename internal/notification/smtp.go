package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type smtpMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendThresholdExceededAlert(ctx context.Context, user userdomain.User, org orgdomain.Organization, currentTotal, threshold float64) error {
	subject := fmt.Sprintf("Monthly billing threshold exceeded for %s", org.Name)
	return m.sendTemplate(ctx, user.Email, subject, "threshold_exceeded", map[string]any{
		"Name":         user.DisplayName(),
		"OrgName":      org.Name,
		"CurrentTotal": fmt.Sprintf("%.2f", currentTotal),
		"Threshold":    fmt.Sprintf("%.2f", threshold),
	})
}

func (m *smtpMailer) SendTicketCreated(ctx context.Context, ticket ticketdomain.Ticket, recipient userdomain.User) error {
	subject := fmt.Sprintf("New ticket: %s", ticket.Title)
	return m.sendTemplate(ctx, recipient.Email, subject, "ticket_created", map[string]any{
		"Name":        recipient.DisplayName(),
		"Title":       ticket.Title,
		"Description": ticket.Description,
	})
}

func (m *smtpMailer) SendCommentAdded(ctx context.Context, comment ticketdomain.Comment, ticket ticketdomain.Ticket, recipient userdomain.User) error {
	subject := fmt.Sprintf("New comment on: %s", ticket.Title)
	return m.sendTemplate(ctx, recipient.Email, subject, "comment_added", map[string]any{
		"Name":  recipient.DisplayName(),
		"Title": ticket.Title,
		"Body":  comment.Body,
	})
}

func (m *smtpMailer) SendStatusChanged(ctx context.Context, ticket ticketdomain.Ticket, recipient userdomain.User, oldStatus, newStatus ticketdomain.Status) error {
	subject := fmt.Sprintf("Status changed on: %s", ticket.Title)
	return m.sendTemplate(ctx, recipient.Email, subject, "status_changed", map[string]any{
		"Name":      recipient.DisplayName(),
		"Title":     ticket.Title,
		"OldStatus": oldStatus.Name,
		"NewStatus": newStatus.Name,
	})
}

func (m *smtpMailer) SendUserInvitation(ctx context.Context, user userdomain.User, invitationURL string) error {
	return m.sendTemplate(ctx, user.Email, "You have been invited to TicketSync", "user_invitation", map[string]any{
		"Name":          user.DisplayName(),
		"InvitationURL": invitationURL,
	})
}

func (m *smtpMailer) sendTemplate(ctx context.Context, to, subject, name string, data map[string]any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name+".html", data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return m.send(ctx, to, subject, body.String())
}

func (m *smtpMailer) send(_ context.Context, to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n%s\r\n%s", from, to, subject, mime, htmlBody))

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
