package base

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Field extraction helpers for raw upstream payloads. Upstream records are
// treated as untrusted: missing or malformed fields default to zero/empty
// rather than failing the record.

// ExtractString returns the first non-empty string value among keys
func ExtractString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s := strings.TrimSpace(cast.ToString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// ExtractInt returns the first present integer value among keys, zero when
// absent or malformed
func ExtractInt(raw map[string]any, keys ...string) int {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			return cast.ToInt(v)
		}
	}
	return 0
}

// ExtractPrice returns the first present numeric value among keys as a
// decimal, zero when absent or malformed
func ExtractPrice(raw map[string]any, keys ...string) decimal.Decimal {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if d, err := decimal.NewFromString(cast.ToString(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// ExtractCurrency returns the first present 3-letter currency code among
// keys, uppercased, or fallback when absent
func ExtractCurrency(raw map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s := strings.ToUpper(strings.TrimSpace(cast.ToString(v))); len(s) == 3 {
				return s
			}
		}
	}
	return fallback
}
