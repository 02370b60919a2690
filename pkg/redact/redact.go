// Package redact scrubs credentials and auth tokens out of text before it
// leaves the process, either through a log sink or through an error value.
package redact

import (
	"regexp"
	"strings"
)

// Mask replaces every secret found in redacted text.
const Mask = "********"

// DefaultKeys are the field names whose values are always treated as secret.
var DefaultKeys = []string{"password", "auth", "token"}

// Service holds the compiled patterns for one sensitive field set.
type Service struct {
	escaped *regexp.Regexp
	double  *regexp.Regexp
	single  *regexp.Regexp
	bare    *regexp.Regexp
	hex     *regexp.Regexp
}

var defaultService = New()

/*
New compiles a Service for DefaultKeys plus any extra key names.
Keys match with an optional identifier prefix, so "token" also covers
"api_token" and "password" covers "old_password".
*/
func New(extraKeys ...string) *Service {
	keys := make([]string, 0, len(DefaultKeys)+len(extraKeys))

	for _, k := range append(append([]string{}, DefaultKeys...), extraKeys...) {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, regexp.QuoteMeta(k))
		}
	}

	key := `\b[\w-]*?(?:` + strings.Join(keys, "|") + `)`

	// Quoted values run to their closing quote, skipping escaped
	// characters. Escaped JSON is JSON quoted once more, as log formatters
	// render a body: there every level-one backslash is doubled.
	return &Service{
		escaped: regexp.MustCompile(`(?is)(` + key + `\\"\s*:\s*\\")((?:[^"\\]|\\\\(?:\\\\|\\"|[^"\\]))*)(\\")`),
		double:  regexp.MustCompile(`(?is)(` + key + `["']?\s*[:=]\s*")((?:[^"\\]|\\.)*)(")`),
		single:  regexp.MustCompile(`(?is)(` + key + `["']?\s*[:=]\s*')((?:[^'\\]|\\.)*)(')`),
		bare:    regexp.MustCompile(`(?i)(` + key + `=)([^\s"'\\,;&)}\]]+)`),
		hex:     regexp.MustCompile(`\b(?:[0-9a-fA-F]{64}|[0-9a-fA-F]{32})\b`),
	}
}

// Redact returns text with the values of sensitive fields and every
// token-shaped substring replaced by Mask.
func (s *Service) Redact(text string) string {
	if text == "" {
		return text
	}

	text = s.escaped.ReplaceAllString(text, "${1}"+Mask+"${3}")
	text = s.double.ReplaceAllString(text, "${1}"+Mask+"${3}")
	text = s.single.ReplaceAllString(text, "${1}"+Mask+"${3}")
	text = s.bare.ReplaceAllString(text, "${1}"+Mask)

	return s.hex.ReplaceAllString(text, Mask)
}

// Count reports how many masks text contains.
func (s *Service) Count(text string) int {
	return strings.Count(text, Mask)
}

// Redact runs the default Service.
func Redact(text string) string {
	return defaultService.Redact(text)
}
