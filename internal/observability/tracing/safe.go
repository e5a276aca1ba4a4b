package tracing

import (
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

var allowedSpanKeys = map[attribute.Key]struct{}{
	"request_id":              {},
	"http.method":             {},
	"http.route":              {},
	"http.status_code":        {},
	"http.server_duration_ms": {},
	"title_id":                {},
	"purchase_outcome":        {},
}

// SafeAttributes strips span attributes that could carry user data.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedSpanKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

// SafeError returns a redacted error suitable for span recording.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if containsSensitive(msg) {
		return errors.New("redacted error")
	}
	return err
}

func containsSensitive(msg string) bool {
	lowered := strings.ToLower(msg)
	for _, marker := range []string{"password", "token", "secret", "authorization"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
