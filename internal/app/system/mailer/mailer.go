// Package mailer sends transactional email over SMTP.
//
// Sends are best-effort from the caller's point of view: the verification
// workflow and the account provisioner record a failed send into the
// registration's audit trail and carry on.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Email is one outbound message. TextBody is required; HTMLBody is
// optional and sent as a multipart/alternative part when present.
type Email struct {
	To        string
	Subject   string
	TextBody  string
	HTMLBody  string
	MessageID string // assigned by Send if empty
}

// Mailer delivers email through a single SMTP endpoint.
type Mailer struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
	Log      *zap.Logger
}

// New constructs a Mailer from SMTP settings.
func New(host string, port int, user, pass, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		Host:     host,
		Port:     port,
		User:     user,
		Pass:     pass,
		From:     from,
		FromName: fromName,
		Log:      logger,
	}
}

// Send delivers msg and fills in msg.MessageID. The returned error is the
// provider failure; callers decide whether it is fatal (it never is for
// the verification workflow).
func (m *Mailer) Send(msg *Email) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	if msg.MessageID == "" {
		msg.MessageID = newMessageID(m.From)
	}

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	body := m.compose(msg)

	if err := smtp.SendMail(addr, auth, m.From, []string{msg.To}, body); err != nil {
		m.Log.Warn("email send failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return err
	}

	m.Log.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", msg.MessageID))
	return nil
}

const mimeBoundary = "=_coursedesk_alt"

// compose builds the raw RFC 5322 message bytes.
func (m *Mailer) compose(msg *Email) []byte {
	var b strings.Builder

	from := m.From
	if m.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.FromName, m.From)
	}

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Message-ID: <" + msg.MessageID + ">\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(msg.TextBody)
		return []byte(b.String())
	}

	b.WriteString(`Content-Type: multipart/alternative; boundary="` + mimeBoundary + `"` + "\r\n\r\n")
	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.TextBody + "\r\n")
	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTMLBody + "\r\n")
	b.WriteString("--" + mimeBoundary + "--\r\n")
	return []byte(b.String())
}

// newMessageID derives a Message-ID using the sender's domain so replies
// and provider logs correlate cleanly.
func newMessageID(from string) string {
	domain := "coursedesk.local"
	if i := strings.LastIndex(from, "@"); i >= 0 && i+1 < len(from) {
		domain = from[i+1:]
	}
	return uuid.NewString() + "@" + domain
}
