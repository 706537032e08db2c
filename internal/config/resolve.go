package config

import "regexp"

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// LookupFunc returns the value for an environment variable name and
// whether it is set. os.LookupEnv satisfies it; tests inject a map.
type LookupFunc func(name string) (string, bool)

// Resolve walks a parsed configuration document and substitutes
// ${VAR} placeholders in every string value using lookup. Placeholders
// whose variable is unset are left verbatim. Non-string values are
// returned unchanged.
func Resolve(doc any, lookup LookupFunc) any {
	switch v := doc.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = Resolve(val, lookup)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = Resolve(val, lookup)
		}
		return out
	case string:
		return resolveString(v, lookup)
	default:
		return doc
	}
}

func resolveString(value string, lookup LookupFunc) string {
	return placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if resolved, ok := lookup(name); ok {
			return resolved
		}
		return match
	})
}
