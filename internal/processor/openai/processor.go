// Package openai implements the "ai" processor variant: it condenses
// collected items through an OpenAI-compatible chat-completions call.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/nhle/news-digest/internal/logging"
	"github.com/nhle/news-digest/internal/model"
	"github.com/nhle/news-digest/internal/processor"
)

const (
	defaultAPIBase     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4"
	defaultTemperature = 0.7
	defaultMaxTokens   = 4000
	systemPrompt       = "You are a professional news editor."

	// maxExcerptLen caps each item's content excerpt so the total
	// request size stays bounded.
	maxExcerptLen = 1000

	emptyItemsText = "No new content today."
)

func init() {
	processor.Register("ai", New)
}

// Config holds the AI processor settings decoded from the stage
// options.
type Config struct {
	APIBase     string  `mapstructure:"api_base"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	PromptFile  string  `mapstructure:"prompt_file"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Processor generates a report by substituting the flattened items
// into a prompt template and requesting a completion.
type Processor struct {
	cfg    Config
	name   string
	log    *zap.Logger
	client *http.Client
	prompt *promptTemplate
}

// New builds an AI processor from its stage configuration.
func New(stage model.ProcessorConfig) (processor.Processor, error) {
	var cfg Config
	if err := mapstructure.Decode(stage.Options, &cfg); err != nil {
		return nil, fmt.Errorf("decoding processor %q options: %w", stage.Name, err)
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	log := logging.Get("processor." + stage.Name)
	return &Processor{
		cfg:    cfg,
		name:   stage.Name,
		log:    log,
		client: &http.Client{},
		prompt: newPromptTemplate(cfg.PromptFile, log),
	}, nil
}

// Name returns the configured instance name.
func (p *Processor) Name() string { return p.name }

// Process summarizes the items. API faults are converted into a
// textual failure notice instead of an error, so a processor fault
// degrades to a failure report rather than aborting the domain.
func (p *Processor) Process(ctx context.Context, items []model.Item) (string, error) {
	p.log.Info("processing items", zap.Int("count", len(items)))

	if len(items) == 0 {
		p.log.Warn("no items to process")
		return emptyItemsText, nil
	}

	prompt := p.prompt.render(combineItems(items))
	p.log.Debug("prompt built", zap.Int("length", len(prompt)))

	summary, err := p.complete(ctx, prompt)
	if err != nil {
		p.log.Error("completion failed", zap.Error(err))
		return fmt.Sprintf("Summary generation failed: %v", err), nil
	}

	p.log.Info("processing completed")
	return summary, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Processor) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimSuffix(p.cfg.APIBase, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("completion returned no content")
	}

	return result.Choices[0].Message.Content, nil
}

// combineItems flattens the items into numbered blocks joined by blank
// lines, the representation substituted into the prompt template.
func combineItems(items []model.Item) string {
	blocks := make([]string, 0, len(items))
	for i, item := range items {
		var sb strings.Builder
		fmt.Fprintf(&sb, "--- Item %d ---\n", i+1)
		fmt.Fprintf(&sb, "Title: %s\n", item.Title)
		sb.WriteString("Source: ")
		sb.WriteString(string(item.SourceType))
		if item.URL != "" {
			sb.WriteString(" | Link: ")
			sb.WriteString(item.URL)
		}
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Content: %s", excerpt(item.Content, maxExcerptLen))
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n")
}

// excerpt truncates s to at most limit runes.
func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
