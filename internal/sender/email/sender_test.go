package email

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nhle/news-digest/internal/model"
)

func TestNewDecodesOptions(t *testing.T) {
	s, err := New(model.SenderConfig{
		Type: "email",
		Name: "report",
		Options: map[string]any{
			"smtp_server":    "smtp.example.com",
			"smtp_port":      587,
			"sender_email":   "bot@example.com",
			"receiver_email": "me@example.com",
		},
	})
	require.NoError(t, err)

	es := s.(*Sender)
	assert.Equal(t, "report", es.Name())
	assert.Equal(t, "smtp.example.com", es.cfg.Server)
	assert.Equal(t, 587, es.cfg.Port)
}

// TestSendStartTLSUpgradesBeforeAuth pins the non-465 delivery path:
// the connection is upgraded with STARTTLS unconditionally, before any
// credentials are sent. The fake server stops at the TLS handshake, so
// the send fails, but the command sequence it observed is what matters.
func TestSendStartTLSUpgradesBeforeAuth(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	commands := make(chan string, 8)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		fmt.Fprintf(conn, "220 test ESMTP\r\n")
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			verb := strings.ToUpper(fields[0])
			commands <- verb

			switch verb {
			case "EHLO", "HELO":
				fmt.Fprintf(conn, "250-test\r\n250 STARTTLS\r\n")
			case "STARTTLS":
				fmt.Fprintf(conn, "220 ready\r\n")
				return
			default:
				fmt.Fprintf(conn, "250 ok\r\n")
			}
		}
	}()

	s := &Sender{
		cfg: Config{
			Server:   "127.0.0.1",
			Port:     587,
			From:     "bot@example.com",
			Password: "secret",
			To:       "me@example.com",
		},
		name: "report",
		log:  zap.NewNop(),
	}

	err = s.sendStartTLS(ln.Addr().String(), []byte("body"))
	require.Error(t, err)

	var verbs []string
	for len(commands) > 0 {
		verbs = append(verbs, <-commands)
	}
	assert.Contains(t, verbs, "STARTTLS")
	assert.NotContains(t, verbs, "AUTH")
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage(
		"bot@example.com", "me@example.com",
		"Daily Digest 2024-06-10",
		"**Headline**\n\nBody line & more.",
	)
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "Subject: Daily Digest 2024-06-10")
	assert.Contains(t, text, "From: <bot@example.com>")
	assert.Contains(t, text, "To: <me@example.com>")
	assert.Contains(t, text, "multipart/alternative")
	assert.Contains(t, text, "text/plain")
	assert.Contains(t, text, "text/html")
}

func TestRenderHTML(t *testing.T) {
	got := renderHTML("**Headline**\n\n1 < 2 & 3 > 2")

	assert.Contains(t, got, "<strong>Headline</strong>")
	assert.Contains(t, got, "1 &lt; 2 &amp; 3 &gt; 2")
	assert.Contains(t, got, "<br>")
	assert.Contains(t, got, "<pre")
}
