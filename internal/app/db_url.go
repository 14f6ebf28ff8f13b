package app

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/riskibarqy/ssl-bot/internal/config"
)

// MigrationURL maps DB_DRIVER and DB_URL onto the URL schemes the
// golang-migrate database drivers register.
func MigrationURL(cfg config.Config) (string, error) {
	raw := strings.TrimSpace(cfg.DBURL)
	if raw == "" {
		return "", fmt.Errorf("DB_URL is required")
	}

	switch cfg.DBDriver {
	case config.DBDriverSQLite:
		raw = strings.TrimPrefix(raw, "sqlite3://")
		raw = strings.TrimPrefix(raw, "file:")
		return "sqlite3://" + raw, nil
	case config.DBDriverPostgres:
		return normalizeDBURL(raw, cfg.DBDisablePreparedBinaryResult), nil
	default:
		return "", fmt.Errorf("DB_DRIVER=%s has no schema to migrate", cfg.DBDriver)
	}
}

// normalizeDBURL asks lib/pq for text results on prepared statements, which
// keeps poolers in transaction mode happy. An explicit value in the URL wins.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// dbNameFromURL extracts a database name for traces from postgres URLs,
// key=value DSNs and sqlite file URIs.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil {
		switch {
		case parsed.Scheme == "file":
			file := parsed.Opaque
			if file == "" {
				file = parsed.Path
			}
			return strings.TrimSuffix(path.Base(file), path.Ext(file))
		case parsed.Scheme != "":
			if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
				return name
			}
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.Trim(strings.TrimSpace(strings.TrimPrefix(token, "dbname=")), `"'`)
		if name != "" {
			return name
		}
	}

	// A bare sqlite path such as ./data/ssl-bot.db.
	if !strings.Contains(trimmed, "=") {
		base := path.Base(strings.SplitN(trimmed, "?", 2)[0])
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return ""
}
