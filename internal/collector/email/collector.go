// Package email implements the mail-based collector variant: it reads
// unread messages from an IMAP mailbox and normalizes them into items.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/nhle/news-digest/internal/collector"
	"github.com/nhle/news-digest/internal/logging"
	"github.com/nhle/news-digest/internal/model"
)

func init() {
	collector.Register("email", New)
}

// Collector reads one IMAP mailbox. Each Collect call owns a fresh
// session for its whole duration; nothing persists between runs.
type Collector struct {
	cfg  Config
	name string
	log  *zap.Logger
	now  func() time.Time
}

// New builds an email collector from its stage configuration.
func New(stage model.CollectorConfig) (collector.Collector, error) {
	var cfg Config
	if err := mapstructure.Decode(stage.Options, &cfg); err != nil {
		return nil, fmt.Errorf("decoding email collector %q options: %w", stage.Name, err)
	}
	cfg.applyDefaults()

	return &Collector{
		cfg:  cfg,
		name: stage.Name,
		log:  logging.Get("collector." + stage.Name),
		now:  time.Now,
	}, nil
}

// Name returns the configured instance name.
func (c *Collector) Name() string { return c.name }

// Collect opens a session, searches for unread messages in the
// configured window, and normalizes each match. Per-message failures
// are logged and skipped; only session-level failures (connect,
// authenticate, select) abort the whole contribution.
func (c *Collector) Collect(ctx context.Context) ([]model.Item, error) {
	c.log.Info("starting collection",
		zap.String("account", c.cfg.Account),
		zap.String("mailbox", c.cfg.Mailbox))

	sess, err := openSession(c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	defer sess.close()

	count, err := sess.selectMailbox(c.cfg.Mailbox)
	if err != nil {
		return nil, err
	}
	c.log.Debug("mailbox selected", zap.Uint32("messages", count))

	crit := unseenSince(c.now(), c.cfg.TimeRangeDays)
	c.log.Debug("search criterion", zap.Stringer("criterion", crit))

	uids, err := sess.search(crit)
	if err != nil {
		return nil, err
	}
	c.log.Info("messages matched", zap.Int("count", len(uids)))

	var items []model.Item
	for _, uid := range uids {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		raw, err := sess.fetch(uid)
		if err != nil {
			c.log.Error("fetching message failed",
				zap.Uint32("uid", uint32(uid)), zap.Error(err))
			continue
		}
		if raw == nil {
			continue
		}

		item, ok := itemFromRaw(c.cfg.Account, raw)
		if !ok {
			c.log.Debug("skipping message with empty content",
				zap.Uint32("uid", uint32(uid)))
			continue
		}

		// Fetching the body may have set \Seen implicitly; settle the
		// final read state explicitly either way.
		if err := sess.setSeen(uid, c.cfg.markAsSeen()); err != nil {
			c.log.Warn("updating read flag failed",
				zap.Uint32("uid", uint32(uid)), zap.Error(err))
		}

		items = append(items, item)
	}

	c.log.Info("collection finished", zap.Int("items", len(items)))
	return items, nil
}
