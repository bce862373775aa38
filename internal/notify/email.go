package notify

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/phanicodella/talentsync/internal/config"
	"github.com/phanicodella/talentsync/internal/models"
)

// Mailer delivers interview reports by email. Unlike room teardown, a failed
// delivery is user-visible: errors propagate to the caller.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// SetSendFunc overrides the SMTP transport, typically for tests.
func (m *Mailer) SetSendFunc(send func(string, smtp.Auth, string, []string, []byte) error) {
	m.send = send
}

// SendInterviewResults emails the rendered PDF report to the recipient.
func (m *Mailer) SendInterviewResults(to string, session *models.InterviewSession, pdf []byte) error {
	if m.cfg.User == "" || m.cfg.Pass == "" || m.cfg.From == "" {
		return errors.New("SMTP not configured")
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	msg := m.buildMessage(to, session, pdf)

	if err := m.send(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		// Port 465 servers expect implicit TLS; smtp.SendMail only speaks
		// STARTTLS, so retry over a direct TLS connection.
		if m.cfg.Port == "465" {
			return m.sendOverTLS(addr, auth, to, msg)
		}
		return err
	}

	m.logger.Info("interview results emailed",
		zap.String("to", to),
		zap.String("id", session.ID.Hex()))
	return nil
}

func (m *Mailer) buildMessage(to string, session *models.InterviewSession, pdf []byte) []byte {
	boundary := "talentsync-report-boundary"
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: \"TalentSync\" <%s>\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: Your Interview Results - TalentSync\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	buf.WriteString(htmlSummary(session))
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: application/pdf\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=\"interview-results-%s.pdf\"\r\n\r\n", session.ID.Hex())

	encoded := base64.StdEncoding.EncodeToString(pdf)
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded + "\r\n")
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}

func htmlSummary(session *models.InterviewSession) string {
	minutes := session.DurationSeconds() / 60
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Your TalentSync Interview Results</h2>
<p>Dear %s,</p>
<p>Thank you for completing your interview with TalentSync. Your results are attached to this email.</p>
<h3>Interview Summary</h3>
<ul>
<li>Date: %s</li>
<li>Duration: %d minutes</li>
<li>Questions Answered: %d</li>
</ul>
<p>Please find your detailed results in the attached PDF.</p>
<p>Best regards,<br>TalentSync Team</p>
</div>`,
		session.CandidateName,
		session.StartTime.Format("1/2/2006"),
		minutes,
		len(session.Answers))
}

func (m *Mailer) sendOverTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	return wc.Close()
}
