package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/news-digest/internal/model"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestUnseenSinceDateFormat(t *testing.T) {
	now := time.Date(2024, time.June, 10, 15, 4, 5, 0, time.UTC)

	crit := unseenSince(now, 1)
	assert.Equal(t, `(UNSEEN SINCE "09-Jun-2024")`, crit.String())

	crit = unseenSince(now, 7)
	assert.Equal(t, `(UNSEEN SINCE "03-Jun-2024")`, crit.String())

	criteria := crit.criteria()
	assert.Equal(t, time.Date(2024, time.June, 3, 15, 4, 5, 0, time.UTC), criteria.Since)
	require.Len(t, criteria.NotFlag, 1)
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Weekly update", "Weekly update"},
		{"utf8 base64", "=?UTF-8?B?5paw6Ze75pGY6KaB?=", "新闻摘要"},
		{
			// Two segments in different declared charsets must
			// concatenate into one continuous string.
			"mixed charsets",
			"=?UTF-8?B?SGVsbG8g?= =?ISO-8859-1?Q?Caf=E9?=",
			"Hello Café",
		},
		{
			// Unknown charsets pass through undecoded instead of
			// abandoning the header wholesale.
			"unknown charset passes bytes through",
			"=?X-UNKNOWN-9?Q?Caf=C3=A9?=",
			"Café",
		},
		{
			"unknown segment keeps decodable neighbors",
			"=?X-UNKNOWN-9?B?SGVsbG8g?= =?ISO-8859-1?Q?Caf=E9?=",
			"Hello Café",
		},
		{"empty", "", ""},
		{"malformed encoding falls back to raw", "=?UTF-8?B?!!!?=", "=?UTF-8?B?!!!?="},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decodeHeader(tc.in))
		})
	}
}

func TestExtractSender(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"News Desk <news@example.com>", "news@example.com"},
		{"<bare@example.com>", "bare@example.com"},
		{"  plain@example.com  ", "plain@example.com"},
		{"", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, extractSender(tc.in))
	}
}

func TestItemFromRawSinglePart(t *testing.T) {
	raw := crlf(`From: News Desk <news@example.com>
To: me@example.com
Subject: Morning Briefing
Date: Mon, 10 Jun 2024 08:30:00 +0000
Content-Type: text/plain; charset=utf-8

Top   story: markets rallied.

Read more: https://example.com/markets
`)

	item, ok := itemFromRaw("me@example.com", &rawMessage{UID: 42, Raw: raw})
	require.True(t, ok)

	assert.Equal(t, model.SourceTypeEmail, item.SourceType)
	assert.Equal(t, "me@example.com:42", item.SourceID)
	assert.Equal(t, "Morning Briefing", item.Title)
	assert.Contains(t, item.Content, "Top story: markets rallied.")
	assert.Equal(t, "https://example.com/markets", item.URL)
	assert.Equal(t, time.Date(2024, time.June, 10, 8, 30, 0, 0, time.UTC), item.Timestamp.UTC())
	assert.Equal(t, "news@example.com", item.RawData["sender"])
}

func TestItemFromRawPrefersPlainPart(t *testing.T) {
	raw := crlf(`From: news@example.com
Subject: Multi
Date: Mon, 10 Jun 2024 08:30:00 +0000
Content-Type: multipart/alternative; boundary=BOUNDARY
MIME-Version: 1.0

--BOUNDARY
Content-Type: text/html; charset=utf-8

<p>html rendering</p>
--BOUNDARY
Content-Type: text/plain; charset=utf-8

plain rendering
--BOUNDARY--
`)

	item, ok := itemFromRaw("me@example.com", &rawMessage{UID: 7, Raw: raw})
	require.True(t, ok)
	assert.Equal(t, "plain rendering", item.Content)
}

func TestItemFromRawHTMLFallback(t *testing.T) {
	raw := crlf(`From: news@example.com
Subject: Markup only
Content-Type: multipart/alternative; boundary=BOUNDARY
MIME-Version: 1.0

--BOUNDARY
Content-Type: text/html; charset=utf-8

<p>See <a href="https://example.com/x">details</a></p>
--BOUNDARY--
`)

	item, ok := itemFromRaw("me@example.com", &rawMessage{UID: 8, Raw: raw})
	require.True(t, ok)
	assert.Contains(t, item.Content, "details <https://example.com/x>")
	assert.Equal(t, "https://example.com/x", item.URL)
}

func TestItemFromRawEmptyBodyDiscarded(t *testing.T) {
	raw := crlf(`From: news@example.com
Subject: Empty
Content-Type: text/plain; charset=utf-8


`)

	_, ok := itemFromRaw("me@example.com", &rawMessage{UID: 9, Raw: raw})
	assert.False(t, ok)
}

func TestItemFromRawMissingHeaders(t *testing.T) {
	raw := crlf(`Content-Type: text/plain; charset=utf-8

body text without headers
`)

	item, ok := itemFromRaw("me@example.com", &rawMessage{UID: 10, Raw: raw})
	require.True(t, ok)
	assert.Equal(t, model.NoSubject, item.Title)
	assert.True(t, item.Timestamp.IsZero())
}

func TestItemFromRawLinkCap(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 8; i++ {
		body.WriteString("https://example.com/same ")
	}
	body.WriteString("https://example.com/a https://example.com/b https://example.com/c")

	raw := crlf("From: n@example.com\nSubject: Links\nContent-Type: text/plain; charset=utf-8\n\n" +
		body.String() + "\n")

	item, ok := itemFromRaw("me@example.com", &rawMessage{UID: 11, Raw: raw})
	require.True(t, ok)
	assert.Equal(t, "https://example.com/same", item.URL)
}
