package mailer

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// SMTPMailerはgomailでメールを送る
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	cc     string
}

func NewSMTPMailer(host string, port int, user, password, from, cc string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		cc:     cc,
	}
}

// SendInvoiceは請求書PDFを添付して送る。CCは固定
func (m *SMTPMailer) SendInvoice(ctx context.Context, to, subject, body, filename string, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := m.buildMessage(to, subject, body, filename, pdf)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send invoice mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) buildMessage(to, subject, body, filename string, pdf []byte) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	if m.cc != "" {
		msg.SetHeader("Cc", m.cc)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return msg
}
