// Package mailer sends transactional notification mail over SMTP.
// Delivery is fire-and-forget: every send runs in its own goroutine and
// failures are logged, never surfaced to the request that triggered them.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"
)

type Mailer struct {
	host      string
	port      int
	user      string
	password  string
	from      string
	adminAddr string
	enabled   bool
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		host:      cfg.Host,
		port:      cfg.Port,
		user:      cfg.User,
		password:  cfg.Password,
		from:      cfg.From,
		adminAddr: cfg.AdminAddr,
		enabled:   cfg.Enabled,
	}
}

// Send delivers asynchronously. The caller never blocks on SMTP.
func (m *Mailer) Send(to, subject, htmlBody string) {
	if !m.enabled || to == "" {
		return
	}
	go func() {
		if err := m.deliver(to, subject, htmlBody); err != nil {
			logger.Error("mail delivery failed", "to", to, "subject", subject, "error", err)
		}
	}()
}

// SendToAdmin routes staff-facing notifications to the configured inbox.
func (m *Mailer) SendToAdmin(subject, htmlBody string) {
	m.Send(m.adminAddr, subject, htmlBody)
}

func (m *Mailer) deliver(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String()))
}

// OrderConfirmation builds the customer-facing order receipt body.
func OrderConfirmation(orderNumber string, total float64, currency string) (subject, body string) {
	subject = fmt.Sprintf("Order %s confirmed", orderNumber)
	body = fmt.Sprintf(
		"<h2>Thank you for your order</h2>"+
			"<p>Your order <strong>%s</strong> has been confirmed.</p>"+
			"<p>Total: <strong>%s %.2f</strong></p>"+
			"<p>We will let you know as soon as it ships.</p>",
		orderNumber, currency, total)
	return subject, body
}

// ShippingNotice builds the shipment notification body.
func ShippingNotice(orderNumber, trackingNumber string) (subject, body string) {
	subject = fmt.Sprintf("Order %s has shipped", orderNumber)
	body = fmt.Sprintf(
		"<h2>Your order is on its way</h2>"+
			"<p>Order <strong>%s</strong> has been shipped.</p>", orderNumber)
	if trackingNumber != "" {
		body += fmt.Sprintf("<p>Tracking number: <strong>%s</strong></p>", trackingNumber)
	}
	return subject, body
}

// ContactAck builds the auto-reply for a contact-form submission.
func ContactAck(name string) (subject, body string) {
	subject = "We received your message"
	body = fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Thanks for reaching out to Hisi Studio. We have received your "+
			"message and will get back to you within two business days.</p>", name)
	return subject, body
}

// InquiryReply wraps a staff-written answer to a contact message.
func InquiryReply(name, response string) (subject, body string) {
	subject = "Re: your message to Hisi Studio"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>%s</p>"+
			"<p>- The Hisi Studio team</p>", name, response)
	return subject, body
}

// ConsultationAck builds the booking confirmation for a consultation.
func ConsultationAck(name, consultationType, date, timeSlot string) (subject, body string) {
	subject = "Consultation request received"
	body = fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your %s consultation request for %s at %s has been received. "+
			"We will confirm the slot shortly.</p>",
		name, consultationType, date, timeSlot)
	return subject, body
}
