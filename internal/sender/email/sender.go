// Package email implements the mail-based sender variant: it delivers
// the report as a multipart/alternative message over SMTP.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/nhle/news-digest/internal/logging"
	"github.com/nhle/news-digest/internal/model"
	"github.com/nhle/news-digest/internal/sender"
)

const dialTimeout = 30 * time.Second

func init() {
	sender.Register("email", New)
}

// Config holds the SMTP sender settings decoded from the stage
// options. Port 465 uses implicit TLS; any other port upgrades the
// connection with STARTTLS before authenticating.
type Config struct {
	Server   string `mapstructure:"smtp_server"`
	Port     int    `mapstructure:"smtp_port"`
	From     string `mapstructure:"sender_email"`
	Password string `mapstructure:"sender_password"`
	To       string `mapstructure:"receiver_email"`
}

// Sender delivers reports over SMTP.
type Sender struct {
	cfg  Config
	name string
	log  *zap.Logger
}

// New builds an email sender from its stage configuration.
func New(stage model.SenderConfig) (sender.Sender, error) {
	var cfg Config
	if err := mapstructure.Decode(stage.Options, &cfg); err != nil {
		return nil, fmt.Errorf("decoding email sender %q options: %w", stage.Name, err)
	}
	if cfg.Server == "" {
		cfg.Server = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}

	return &Sender{
		cfg:  cfg,
		name: stage.Name,
		log:  logging.Get("sender." + stage.Name),
	}, nil
}

// Name returns the configured instance name.
func (s *Sender) Name() string { return s.name }

// Send composes the report as multipart/alternative (plain text plus a
// minimal HTML rendering) and delivers it synchronously.
func (s *Sender) Send(_ context.Context, content, subject string) error {
	s.log.Info("sending report", zap.String("to", s.cfg.To))

	msg, err := buildMessage(s.cfg.From, s.cfg.To, subject, content)
	if err != nil {
		return fmt.Errorf("composing report message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)
	if s.cfg.Port == 465 {
		err = s.sendImplicitTLS(addr, msg)
	} else {
		err = s.sendStartTLS(addr, msg)
	}
	if err != nil {
		return fmt.Errorf("delivering report to %s: %w", s.cfg.To, err)
	}

	s.log.Info("report sent")
	return nil
}

func (s *Sender) sendImplicitTLS(addr string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: s.cfg.Server}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Server)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Server)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return s.submit(client, msg)
}

func (s *Sender) sendStartTLS(addr string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Server)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	// The upgrade is unconditional: plain AUTH over an unencrypted
	// connection is refused by the SMTP client anyway.
	tlsConfig := &tls.Config{ServerName: s.cfg.Server}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("SMTP STARTTLS: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Server)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return s.submit(client, msg)
}

func (s *Sender) submit(client *smtp.Client, msg []byte) error {
	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	if err := client.Rcpt(s.cfg.To); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := writer.Write(msg); err != nil {
		return fmt.Errorf("writing message body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing message body: %w", err)
	}

	return client.Quit()
}

// buildMessage renders the report as a multipart/alternative message
// with a plain-text part and an HTML part.
func buildMessage(from, to, subject, content string) ([]byte, error) {
	var header gomail.Header
	header.SetDate(time.Now())
	header.SetAddressList("From", []*gomail.Address{{Address: from}})
	header.SetAddressList("To", []*gomail.Address{{Address: to}})
	header.SetSubject(subject)

	var buf bytes.Buffer
	mw, err := gomail.CreateWriter(&buf, header)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("creating alternative part: %w", err)
	}

	var plainHeader gomail.InlineHeader
	plainHeader.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(plainHeader)
	if err != nil {
		return nil, fmt.Errorf("creating text part: %w", err)
	}
	if _, err := io.WriteString(pw, content); err != nil {
		return nil, fmt.Errorf("writing text part: %w", err)
	}
	pw.Close()

	var htmlHeader gomail.InlineHeader
	htmlHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	hw, err := iw.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("creating html part: %w", err)
	}
	if _, err := io.WriteString(hw, renderHTML(content)); err != nil {
		return nil, fmt.Errorf("writing html part: %w", err)
	}
	hw.Close()

	iw.Close()
	mw.Close()

	return buf.Bytes(), nil
}
