package openai

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// placeholder is the single substitution token the prompt template
// must contain.
const placeholder = "{combined_content}"

const defaultPrompt = `Compile today's digest from the following items.

Requirements:
- Pick out the most important items
- Remove duplicated content
- Give a concise summary for each item

Items:
{combined_content}

Today's digest:`

// promptTemplate lazily loads the template from the configured file,
// falling back to the built-in default when the path is empty, missing,
// or unreadable. The result is cached after the first load.
type promptTemplate struct {
	path string
	log  *zap.Logger

	once sync.Once
	text string
}

func newPromptTemplate(path string, log *zap.Logger) *promptTemplate {
	return &promptTemplate{path: path, log: log}
}

func (t *promptTemplate) render(combined string) string {
	t.once.Do(t.load)
	return strings.ReplaceAll(t.text, placeholder, combined)
}

func (t *promptTemplate) load() {
	t.text = defaultPrompt

	if t.path == "" {
		t.log.Warn("no prompt_file configured, using default prompt")
		return
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		t.log.Warn("reading prompt file failed, using default prompt",
			zap.String("path", t.path), zap.Error(err))
		return
	}

	t.text = string(data)
	t.log.Debug("prompt template loaded", zap.String("path", t.path))
}
