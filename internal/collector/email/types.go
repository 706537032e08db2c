package email

import (
	"fmt"

	"github.com/emersion/go-imap/v2"
)

// Config holds the IMAP collector settings decoded from the stage
// options.
type Config struct {
	// Server is the IMAP host name.
	Server string `mapstructure:"imap_server"`

	// Port is the IMAP port; 993 (implicit TLS) by default. Any other
	// port connects with STARTTLS.
	Port int `mapstructure:"imap_port"`

	// Account and Password are the login credentials.
	Account  string `mapstructure:"email_account"`
	Password string `mapstructure:"email_password"`

	// Mailbox is the folder to collect from, INBOX by default.
	Mailbox string `mapstructure:"mailbox"`

	// MarkAsSeen controls the flag mutation after a successful fetch:
	// true (the default) sets \Seen, false removes it so processed
	// messages stay unread even when the fetch set the flag
	// implicitly.
	MarkAsSeen *bool `mapstructure:"mark_as_seen"`

	// TimeRangeDays bounds the search window to messages received
	// since now − TimeRangeDays. Defaults to 1.
	TimeRangeDays int `mapstructure:"time_range_days"`
}

func (c *Config) applyDefaults() {
	if c.Server == "" {
		c.Server = "imap.gmail.com"
	}
	if c.Port == 0 {
		c.Port = 993
	}
	if c.Mailbox == "" {
		c.Mailbox = "INBOX"
	}
	if c.TimeRangeDays == 0 {
		c.TimeRangeDays = 1
	}
}

func (c *Config) markAsSeen() bool {
	return c.MarkAsSeen == nil || *c.MarkAsSeen
}

// AuthError indicates the server rejected the configured credentials
// or the post-login identification handshake.
type AuthError struct {
	Account string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %v", e.Account, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// MailboxError indicates the server reported a non-OK status selecting
// a mailbox. The orchestrator treats it as zero items, not as fatal.
type MailboxError struct {
	Mailbox string
	Err     error
}

func (e *MailboxError) Error() string {
	return fmt.Sprintf("selecting mailbox %q: %v", e.Mailbox, e.Err)
}

func (e *MailboxError) Unwrap() error { return e.Err }

// rawMessage is one fetched envelope: the message UID plus the full
// RFC 2822 bytes as returned by the server.
type rawMessage struct {
	UID imap.UID
	Raw []byte
}
