package mailer

import (
	"time"

	"github.com/pkg/errors"
	mail "github.com/wneessen/go-mail"

	"github.com/techedushop/contactus/models"
	"github.com/techedushop/contactus/server/logger"
)

var logg = logger.NewLogger()

// Mailer sends the two notification emails triggered by a new
// contact-form submission.
type Mailer interface {
	// SendContactNotification notifies the configured admin address of a new submission
	SendContactNotification(contact *models.Contact) error
	// SendAutoReply sends an acknowledgment to the submitter
	SendAutoReply(contact *models.Contact) error
}

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AdminEmail   string
}

// SMTPMailer implements the Mailer interface using SMTP
type SMTPMailer struct {
	config   *Config
	testMode bool
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// NewTestSMTPMailer creates a mailer in test mode, which renders
// messages but never dials an SMTP server.
func NewTestSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{config: config, testMode: true}
}

func (m *SMTPMailer) SendContactNotification(contact *models.Contact) error {
	htmlBody, plainBody, err := renderContactNotification(contact)
	if err != nil {
		return errors.Wrap(err, "failed to render contact notification")
	}

	subject := "New Contact Form Submission - " + contact.School

	return m.send(m.config.AdminEmail, subject, htmlBody, plainBody)
}

func (m *SMTPMailer) SendAutoReply(contact *models.Contact) error {
	htmlBody, plainBody, err := renderAutoReply(contact)
	if err != nil {
		return errors.Wrap(err, "failed to render auto-reply")
	}

	subject := "Thank you for contacting TechEduShop"

	return m.send(contact.Email, subject, htmlBody, plainBody)
}

func (m *SMTPMailer) send(to, subject, htmlBody, plainBody string) error {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return errors.Wrap(err, "failed to set email from address")
	}

	if err := msg.To(to); err != nil {
		return errors.Wrap(err, "failed to set email recipient")
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	msg.AddAlternativeString(mail.TypeTextPlain, plainBody)

	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}

	if client == nil {
		logg.Infof("test mode: would send %q to %v", subject, to)
		return nil
	}

	if err := client.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	return nil
}

// createSMTPClient creates and configures a new SMTP client.
// In test mode it returns a nil client to avoid SMTP connections.
func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	if m.testMode {
		return nil, nil
	}

	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}

	// Auth is optional, so local unauthenticated relays work too
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create SMTP client")
	}

	return client, nil
}
