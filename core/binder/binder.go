package binder

import (
	"mime"
	"net/http"
)

// Binder binds request data into v, a pointer to a struct.
type Binder func(r *http.Request, v any) error

// Body picks the JSON or the form binder from the request media type.
func Body() Binder {
	jsonBinder, formBinder := JSON(), Form()
	return func(r *http.Request, v any) error {
		if mediaType(r) == "application/json" {
			return jsonBinder(r, v)
		}
		return formBinder(r, v)
	}
}

// IsJSON reports whether the request body is JSON.
func IsJSON(r *http.Request) bool {
	return mediaType(r) == "application/json"
}

func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}
