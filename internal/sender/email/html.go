package email

import "strings"

// renderHTML produces a minimal HTML rendering of the plain-text
// report: escaped lines inside a pre-formatted block, with lines fully
// wrapped in ** promoted to <strong>.
func renderHTML(content string) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><pre style="font-family: Arial, sans-serif;">` + "\n")

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			sb.WriteString("<br>\n")
			continue
		}

		escaped := escapeHTML(line)
		if strings.HasPrefix(escaped, "**") && strings.HasSuffix(escaped, "**") && len(escaped) > 4 {
			escaped = "<strong>" + escaped[2:len(escaped)-2] + "</strong>"
		}
		sb.WriteString(escaped)
		sb.WriteString("\n")
	}

	sb.WriteString("</pre></body></html>")
	return sb.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
