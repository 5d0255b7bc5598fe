package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/techedushop/contactus/models"
)

var contactNotificationTemplate = template.Must(template.New("contactNotification").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #2563eb; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border-radius: 0 0 8px 8px; }
    .field { margin-bottom: 15px; }
    .label { font-weight: bold; color: #1f2937; }
    .value { color: #4b5563; }
    .footer { text-align: center; margin-top: 20px; font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>New Contact Form Submission</h2>
    </div>
    <div class="content">
      <div class="field">
        <div class="label">Contact Person:</div>
        <div class="value">{{.Name}}</div>
      </div>
      <div class="field">
        <div class="label">School Name:</div>
        <div class="value">{{.School}}</div>
      </div>
      <div class="field">
        <div class="label">Email:</div>
        <div class="value"><a href="mailto:{{.Email}}">{{.Email}}</a></div>
      </div>
      {{if .Phone}}
      <div class="field">
        <div class="label">Phone:</div>
        <div class="value">{{.Phone}}</div>
      </div>
      {{end}}
      <div class="field">
        <div class="label">Message:</div>
        <div class="value">{{.Message}}</div>
      </div>
      <div class="field">
        <div class="label">Submitted:</div>
        <div class="value">{{.SubmittedAt}}</div>
      </div>
    </div>
    <div class="footer">
      <p>TechEduShop4RoboCoders Ltd - Contact Management System</p>
    </div>
  </div>
</body>
</html>`))

var autoReplyTemplate = template.Must(template.New("autoReply").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #2563eb; color: white; padding: 30px; border-radius: 8px 8px 0 0; text-align: center; }
    .content { background: white; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
    .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 14px; color: #6b7280; border-radius: 0 0 8px 8px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>TechEduShop</h1>
      <p>Technology Education Partner for Schools</p>
    </div>
    <div class="content">
      <p>Dear {{.Name}},</p>
      <p>Thank you for your interest in TechEduShop! We've received your inquiry regarding <strong>{{.School}}</strong>.</p>
      <p>Our team will review your message and get back to you within 24-48 hours to discuss how we can bring world-class technology education to your students.</p>
      <p><strong>What happens next?</strong></p>
      <ul>
        <li>Our education consultant will contact you within 2 business days</li>
        <li>We'll schedule a visit to your school at your convenience</li>
        <li>You'll receive a customized proposal tailored to your needs</li>
      </ul>
      <p>If you have any urgent questions, please don't hesitate to call us at <strong>+250 788 829 942</strong>.</p>
      <p>Best regards,<br><strong>The TechEduShop Team</strong></p>
    </div>
    <div class="footer">
      <p>Email: info@itc.rw | Phone: +250 788 829 942</p>
      <p>TechEduShop4RoboCoders Ltd - Building Tomorrow's Innovators Today</p>
    </div>
  </div>
</body>
</html>`))

type notificationTemplateData struct {
	Name        string
	School      string
	Email       string
	Phone       string
	Message     string
	SubmittedAt string
}

func renderContactNotification(contact *models.Contact) (htmlBody string, plainBody string, err error) {
	data := notificationTemplateData{
		Name:        contact.Name,
		School:      contact.School,
		Email:       contact.Email,
		Phone:       contact.Phone,
		Message:     contact.Message,
		SubmittedAt: contact.CreatedAt.Format(time.RFC1123),
	}

	buffer := new(bytes.Buffer)
	if err = contactNotificationTemplate.Execute(buffer, data); err != nil {
		return "", "", err
	}

	plainBody = fmt.Sprintf(
		"New contact form submission\n\n"+
			"Contact Person: %s\nSchool: %s\nEmail: %s\nPhone: %s\n\n%s\n\nSubmitted: %s\n",
		data.Name, data.School, data.Email, data.Phone, data.Message, data.SubmittedAt)

	return buffer.String(), plainBody, nil
}

func renderAutoReply(contact *models.Contact) (htmlBody string, plainBody string, err error) {
	buffer := new(bytes.Buffer)
	if err = autoReplyTemplate.Execute(buffer, contact); err != nil {
		return "", "", err
	}

	plainBody = fmt.Sprintf(
		"Dear %s,\n\n"+
			"Thank you for your interest in TechEduShop! We've received your inquiry "+
			"regarding %s.\n\n"+
			"Our team will review your message and get back to you within 24-48 hours.\n\n"+
			"Best regards,\nThe TechEduShop Team\n",
		contact.Name, contact.School)

	return buffer.String(), plainBody, nil
}
