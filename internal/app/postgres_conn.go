package app

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
)

const (
	preparedBinaryResultParam = "disable_prepared_binary_result"
	maxTracedQueryLength      = 512
)

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// postgresConn is the resolved DSN plus the tracing options for one pool.
type postgresConn struct {
	dsn     string
	options []otelsql.Option
}

func newPostgresConn(cfg config.Config) postgresConn {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	options := []otelsql.Option{otelsql.WithQueryFormatter(formatDBQueryForTrace)}
	if name := dbNameFromURL(dsn); name != "" {
		options = append(options, otelsql.WithDBName(name))
	}
	return postgresConn{dsn: dsn, options: options}
}

// normalizeDBURL sets disable_prepared_binary_result=yes on URL-style DSNs
// unless the caller already chose a value. Key/value DSNs pass through.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Has(preparedBinaryResultParam) {
		return raw
	}
	query.Set(preparedBinaryResultParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL reads the database name from either DSN form.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	for _, token := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// formatDBQueryForTrace collapses whitespace and caps the statement length
// recorded on spans.
func formatDBQueryForTrace(query string) string {
	normalized := queryWhitespaceRegex.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
