package normalize

import "regexp"

var linkPattern = regexp.MustCompile(`(?i)https?://[^\s<>()\[\]"']+`)

// ExtractLinks returns up to limit distinct http(s) URLs found in text,
// in discovery order. Duplicates are removed; only the cardinality cap
// and de-duplication are contractual, not the ordering.
func ExtractLinks(text string, limit int) []string {
	matches := linkPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var links []string
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		links = append(links, m)
		if len(links) == limit {
			break
		}
	}
	return links
}
