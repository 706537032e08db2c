package email

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/news-digest/internal/model"
	"github.com/nhle/news-digest/internal/normalize"
)

// maxLinks caps the number of distinct outbound links extracted from a
// message body.
const maxLinks = 5

var headerDecoder = mime.WordDecoder{CharsetReader: lenientCharsetReader}

// lenientCharsetReader converts known charsets through the registered
// tables and passes unknown ones through as-is, so one exotic segment
// does not discard an otherwise decodable header.
func lenientCharsetReader(name string, input io.Reader) (io.Reader, error) {
	r, err := charset.Reader(name, input)
	if err != nil {
		return input, nil
	}
	return r, nil
}

// itemFromRaw converts one fetched message into a normalized item.
// It returns ok=false when the message has no usable content after
// cleaning; such messages are skipped, not errors.
func itemFromRaw(account string, msg *rawMessage) (model.Item, bool) {
	subject, sender, timestamp, content := parseMessage(msg.Raw)

	if content == "" {
		return model.Item{}, false
	}

	title := subject
	if title == "" {
		title = model.NoSubject
	}

	var url string
	if links := normalize.ExtractLinks(content, maxLinks); len(links) > 0 {
		url = links[0]
	}

	return model.Item{
		SourceType: model.SourceTypeEmail,
		SourceID:   fmt.Sprintf("%s:%d", account, msg.UID),
		Title:      title,
		Content:    content,
		URL:        url,
		Timestamp:  timestamp,
		RawData: map[string]string{
			"sender":  sender,
			"subject": title,
		},
	}, true
}

// parseMessage extracts the decoded subject, sender address, timestamp,
// and cleaned body text from raw RFC 2822 bytes. A body that cannot be
// parsed as MIME at all is treated as plain text in its entirety.
func parseMessage(raw []byte) (subject, sender string, timestamp time.Time, content string) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil || mr == nil {
		return "", "", time.Time{}, normalize.Plain(string(raw))
	}
	defer mr.Close()

	subject = decodeHeader(mr.Header.Get("Subject"))
	sender = extractSender(mr.Header.Get("From"))

	// Absent or unparsable dates yield no timestamp, not an error.
	if t, err := mr.Header.Date(); err == nil {
		timestamp = t
	}

	content = extractContent(mr)
	return subject, sender, timestamp, content
}

// extractContent walks the message parts in the server's declared
// order, preferring the first plain-text part and falling back to the
// first markup part. Single-part messages use the body directly.
func extractContent(mr *mail.Reader) string {
	var plainBody, htmlBody string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := header.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			if plainBody == "" {
				plainBody = string(body)
			}
		case strings.HasPrefix(contentType, "text/html"):
			if htmlBody == "" {
				htmlBody = string(body)
			}
		}
	}

	if plainBody != "" {
		return normalize.Plain(plainBody)
	}
	return normalize.HTML(htmlBody)
}

// decodeHeader decodes a possibly multi-segment encoded-word header,
// handling each segment with its declared charset and concatenating
// the results. Undecodable values fall back to the raw header text.
func decodeHeader(value string) string {
	if value == "" {
		return ""
	}
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}

// extractSender isolates the angle-bracket address from a From header
// when present, otherwise returns the trimmed raw header.
func extractSender(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		addr := from[i+1:]
		if j := strings.Index(addr, ">"); j >= 0 {
			addr = addr[:j]
		}
		return strings.TrimSpace(addr)
	}
	return strings.TrimSpace(from)
}
