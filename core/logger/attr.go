package logger

import (
	"log/slog"
	"time"
)

// Helpers return the empty Attr for nil or empty input so callers can pass
// them unconditionally; slog drops empty attributes.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RequestID creates an attribute for the request identifier.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Username creates an attribute for an account name.
func Username(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("username", name)
}

// Method creates an attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for the request path.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Query creates an attribute for the raw query string.
func Query(q string) slog.Attr {
	if q == "" {
		return slog.Attr{}
	}
	return slog.String("query", q)
}

// StatusCode creates an attribute for the HTTP response status.
func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

// ClientIP creates an attribute for the client address.
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// UserAgent creates an attribute for the User-Agent header.
func UserAgent(ua string) slog.Attr {
	if ua == "" {
		return slog.Attr{}
	}
	return slog.String("user_agent", ua)
}

// BytesOut creates an attribute for response size.
func BytesOut(n int64) slog.Attr {
	return slog.Int64("bytes_out", n)
}

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names what happened.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Action names the operation being performed.
func Action(action string) slog.Attr {
	return slog.String("action", action)
}

// Result records an operation outcome such as "success" or "denied".
func Result(result string) slog.Attr {
	return slog.String("result", result)
}

// Count creates a numeric attribute with a custom key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Key creates a generic attribute with a custom key.
func Key(key string, value any) slog.Attr {
	return slog.Any(key, value)
}
