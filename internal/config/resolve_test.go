package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mapLookup(env map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestResolveString(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"USER":     "alice",
		"PASSWORD": "s3cret",
		"EMPTY":    "",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no placeholder", "plain value", "plain value"},
		{"single placeholder", "${USER}", "alice"},
		{"embedded placeholder", "user=${USER};pw=${PASSWORD}", "user=alice;pw=s3cret"},
		{"unset left verbatim", "${MISSING}", "${MISSING}"},
		{"set but empty resolves to empty", "x${EMPTY}y", "xy"},
		{"malformed braces untouched", "${not-a-var}", "${not-a-var}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.in, lookup)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveRecursesIntoDocument(t *testing.T) {
	lookup := mapLookup(map[string]string{"TOKEN": "abc123"})

	doc := map[string]any{
		"name": "prod",
		"auth": map[string]any{
			"token": "${TOKEN}",
			"port":  993,
		},
		"hosts": []any{"${TOKEN}.example.com", "${MISSING}.example.com", true},
	}

	got := Resolve(doc, lookup)

	want := map[string]any{
		"name": "prod",
		"auth": map[string]any{
			"token": "abc123",
			"port":  993,
		},
		"hosts": []any{"abc123.example.com", "${MISSING}.example.com", true},
	}
	assert.Equal(t, want, got)
}
