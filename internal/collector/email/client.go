package email

import (
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"
)

// session owns one authenticated IMAP connection for the duration of a
// single Collect call. It is never shared and never reused.
type session struct {
	client *imapclient.Client
	log    *zap.Logger
}

// openSession dials the server, authenticates, and attempts the ID
// handshake when the server advertises it. Some providers require the
// handshake immediately after login before allowing mailbox access; a
// rejected handshake therefore fails the session open, while a missing
// ID capability is simply ignored.
func openSession(cfg Config, log *zap.Logger) (*session, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)

	var client *imapclient.Client
	var err error
	if cfg.Port == 993 {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(cfg.Account, cfg.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{Account: cfg.Account, Err: err}
	}

	if client.Caps().Has(imap.CapID) {
		idData := &imap.IDData{Name: "news-digest", Version: "1.0"}
		if _, err := client.ID(idData).Wait(); err != nil {
			_ = client.Logout().Wait()
			return nil, fmt.Errorf("ID handshake with %s: %w", addr, err)
		}
	}

	return &session{client: client, log: log}, nil
}

// selectMailbox selects the named mailbox and returns its message
// count.
func (s *session) selectMailbox(name string) (uint32, error) {
	data, err := s.client.Select(name, nil).Wait()
	if err != nil {
		return 0, &MailboxError{Mailbox: name, Err: err}
	}
	return data.NumMessages, nil
}

// search returns the UIDs of messages matching the criterion, in
// server order. An empty result is valid.
func (s *session) search(crit criterion) ([]imap.UID, error) {
	data, err := s.client.UIDSearch(crit.criteria(), nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}
	return data.AllUIDs(), nil
}

// fetch retrieves the full message body for one UID. The fetch is
// deliberately non-PEEK; the explicit flag mutation afterwards settles
// the final read state. A missing or empty envelope yields (nil, nil).
func (s *session) fetch(uid imap.UID) (*rawMessage, error) {
	bodySection := &imap.FetchItemBodySection{}
	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := s.client.Fetch(imap.UIDSetNum(uid), fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, nil
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, fmt.Errorf("collecting message %d: %w", uid, err)
	}

	raw := buf.FindBodySection(bodySection)
	if len(raw) == 0 {
		return nil, nil
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetching message %d: %w", uid, err)
	}

	return &rawMessage{UID: uid, Raw: raw}, nil
}

// setSeen adds or removes the \Seen flag on one message.
func (s *session) setSeen(uid imap.UID, seen bool) error {
	storeCmd := s.client.Store(imap.UIDSetNum(uid), seenStoreFlags(seen), nil)
	return storeCmd.Close()
}

// seenStoreFlags builds the silent flag mutation that settles a
// message's final read state: +FLAGS \Seen when it should be marked
// read, -FLAGS \Seen to restore unread after a non-PEEK fetch.
func seenStoreFlags(seen bool) *imap.StoreFlags {
	op := imap.StoreFlagsAdd
	if !seen {
		op = imap.StoreFlagsDel
	}
	return &imap.StoreFlags{
		Op:     op,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}
}

// close logs out gracefully. It runs on every exit path of Collect;
// failures are logged, never propagated.
func (s *session) close() {
	if err := s.client.Logout().Wait(); err != nil {
		s.log.Warn("logout failed", zap.Error(err))
	}
}

// criterion is the selection filter for one collection run: unread
// messages received since a cutoff date.
type criterion struct {
	since time.Time
}

// unseenSince builds the criterion for the configured window. It is a
// pure function of the reference time, so tests can pin the clock.
func unseenSince(now time.Time, days int) criterion {
	return criterion{since: now.AddDate(0, 0, -days)}
}

func (c criterion) criteria() *imap.SearchCriteria {
	return &imap.SearchCriteria{
		Since:   c.since,
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
}

// String renders the criterion in the protocol's search syntax, with
// the date in the server's required format.
func (c criterion) String() string {
	return fmt.Sprintf("(UNSEEN SINCE %q)", c.since.Format("02-Jan-2006"))
}
