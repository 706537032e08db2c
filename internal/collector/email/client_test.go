package email

import (
	"testing"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/news-digest/internal/model"
)

func TestSeenStoreFlags(t *testing.T) {
	add := seenStoreFlags(true)
	assert.Equal(t, imap.StoreFlagsAdd, add.Op)
	assert.Equal(t, []imap.Flag{imap.FlagSeen}, add.Flags)
	assert.True(t, add.Silent)

	del := seenStoreFlags(false)
	assert.Equal(t, imap.StoreFlagsDel, del.Op)
	assert.Equal(t, []imap.Flag{imap.FlagSeen}, del.Flags)
	assert.True(t, del.Silent)
}

func TestConfigMarkAsSeen(t *testing.T) {
	var cfg Config
	assert.True(t, cfg.markAsSeen(), "absent defaults to marking read")

	yes := true
	cfg.MarkAsSeen = &yes
	assert.True(t, cfg.markAsSeen())

	no := false
	cfg.MarkAsSeen = &no
	assert.False(t, cfg.markAsSeen())
}

// TestNewMarkAsSeenDecoding covers the option through the full decode
// path: an explicit false must survive decoding and not collapse into
// the default.
func TestNewMarkAsSeenDecoding(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]any
		want    bool
	}{
		{name: "absent", options: map[string]any{}, want: true},
		{name: "explicit true", options: map[string]any{"mark_as_seen": true}, want: true},
		{name: "explicit false", options: map[string]any{"mark_as_seen": false}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(model.CollectorConfig{
				Type:    "email",
				Name:    "inbox",
				Options: tt.options,
			})
			require.NoError(t, err)

			ec := c.(*Collector)
			assert.Equal(t, tt.want, ec.cfg.markAsSeen())
		})
	}
}
