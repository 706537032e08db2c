// Package pipeline sequences acquisition, summarization, and delivery
// across the configured domains, isolating failures so one domain's
// fault never aborts the others.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/news-digest/internal/collector"
	"github.com/nhle/news-digest/internal/logging"
	"github.com/nhle/news-digest/internal/model"
	"github.com/nhle/news-digest/internal/processor"
	"github.com/nhle/news-digest/internal/sender"
)

// Pipeline runs the configured domains sequentially. Every stage
// instance is constructed fresh per domain from that domain's
// configuration; no state is shared across domains.
type Pipeline struct {
	cfg *model.Config
	log *zap.Logger
	now func() time.Time
}

// New builds a pipeline for the given configuration.
func New(cfg *model.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: logging.Get("pipeline"),
		now: time.Now,
	}
}

// Run processes every configured domain once. It is the outermost
// recovery point: errors and panics inside a domain are logged with
// the domain name and the run proceeds to the next domain.
func (p *Pipeline) Run(ctx context.Context) {
	log := p.log.With(zap.String("run_id", uuid.NewString()))
	log.Info("starting run")

	if len(p.cfg.Domains) == 0 {
		log.Warn("no domains configured")
		return
	}

	for _, domain := range p.cfg.Domains {
		p.runDomain(ctx, log, domain)
	}

	log.Info("run completed")
}

func (p *Pipeline) runDomain(ctx context.Context, log *zap.Logger, domain model.DomainConfig) {
	log = log.With(zap.String("domain", domain.Name))

	defer func() {
		if r := recover(); r != nil {
			log.Error("domain processing panicked", zap.Any("panic", r))
		}
	}()

	log.Info("processing domain")

	items := p.collect(ctx, log, domain)
	if len(items) == 0 {
		log.Warn("no items collected, skipping domain")
		return
	}

	content := p.process(ctx, log, domain, items)
	if content == "" {
		log.Error("no content produced, skipping delivery")
		return
	}

	p.deliver(ctx, log, domain, content)
}

// collect runs every configured collector and aggregates their items.
// A failing or unknown collector contributes nothing; the rest of the
// domain's collectors still run.
func (p *Pipeline) collect(ctx context.Context, log *zap.Logger, domain model.DomainConfig) []model.Item {
	if len(domain.Collectors) == 0 {
		log.Warn("no collectors configured")
		return nil
	}

	var items []model.Item
	for _, cfg := range domain.Collectors {
		c, err := collector.New(cfg)
		if err != nil {
			if errors.Is(err, collector.ErrUnknownType) {
				log.Warn("skipping collector",
					zap.String("collector", cfg.Name), zap.Error(err))
			} else {
				log.Error("building collector failed",
					zap.String("collector", cfg.Name), zap.Error(err))
			}
			continue
		}

		collected, err := c.Collect(ctx)
		if err != nil {
			log.Error("collector failed",
				zap.String("collector", c.Name()), zap.Error(err))
			continue
		}

		log.Info("collector finished",
			zap.String("collector", c.Name()), zap.Int("items", len(collected)))
		items = append(items, collected...)
	}

	return items
}

func (p *Pipeline) process(ctx context.Context, log *zap.Logger, domain model.DomainConfig, items []model.Item) string {
	proc, err := processor.New(domain.Processor)
	if err != nil {
		log.Warn("skipping processor",
			zap.String("processor", domain.Processor.Name), zap.Error(err))
		return ""
	}

	content, err := proc.Process(ctx, items)
	if err != nil {
		log.Error("processing failed",
			zap.String("processor", proc.Name()), zap.Error(err))
		return ""
	}

	return content
}

func (p *Pipeline) deliver(ctx context.Context, log *zap.Logger, domain model.DomainConfig, content string) {
	s, err := sender.New(domain.Sender)
	if err != nil {
		log.Warn("skipping sender",
			zap.String("sender", domain.Sender.Name), zap.Error(err))
		return
	}

	if !domain.Sender.IsEnabled() {
		log.Info("sender disabled, skipping delivery",
			zap.String("sender", s.Name()))
		return
	}

	subject := p.subject(domain.Sender)
	if err := s.Send(ctx, content, subject); err != nil {
		log.Error("delivery failed",
			zap.String("sender", s.Name()), zap.Error(err))
		return
	}

	log.Info("report delivered", zap.String("subject", subject))
}

// subject builds the report subject line from the configured prefix
// and the current date.
func (p *Pipeline) subject(cfg model.SenderConfig) string {
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "Daily Digest"
	}
	return fmt.Sprintf("%s %s", prefix, p.now().Format("2006-01-02"))
}
