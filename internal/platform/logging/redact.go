package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Field names whose values never reach a log line, whatever they hold.
var secretFields = []string{
	"token", "readwise_token", "readwiseToken",
	"apiKey", "api_key", "apikey",
	"authorization", "password", "secret", "cookie", "credentials",
}

// Values with a recognisable credential shape, wherever they appear.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(token|bearer|basic)\s+\S+`), // Authorization header values
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{8,}$`),          // completion provider key
	regexp.MustCompile(`^eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*$`),  // JWT
}

// DefaultRedactOptions lists the masq rules applied to every handler.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretFields)+len(secretValues)+1)

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, re := range secretValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return append(opts, masq.WithFieldPrefix("secret"))
}

// NewReplaceAttr builds a slog ReplaceAttr func from the default rules plus
// extra.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), extra...)...)
}
