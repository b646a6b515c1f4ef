package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labsai/eddiauth/core/handler"
)

// WithHeaders sets headers before the wrapped response renders.
func WithHeaders(resp handler.Response, headers map[string]string) handler.Response {
	if resp == nil || len(headers) == 0 {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return resp(w, r)
	}
}

// WithCookie sets a cookie before the wrapped response renders.
func WithCookie(resp handler.Response, cookie *http.Cookie) handler.Response {
	if resp == nil || cookie == nil {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.SetCookie(w, cookie)
		return resp(w, r)
	}
}

// WithCache sets public caching headers for maxAge > 0, otherwise it
// disables caching.
func WithCache(resp handler.Response, maxAge time.Duration) handler.Response {
	if resp == nil {
		return nil
	}
	if maxAge <= 0 {
		return WithNoStore(resp)
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
		w.Header().Set("Expires", time.Now().Add(maxAge).Format(http.TimeFormat))
		return resp(w, r)
	}
}

// WithNoStore forbids any caching of the response by browsers and proxies.
// Used for responses carrying one-time secrets such as CSRF tokens.
func WithNoStore(resp handler.Response) handler.Response {
	return WithHeaders(resp, map[string]string{
		"Cache-Control": "no-store, no-cache, must-revalidate, max-age=0",
		"Pragma":        "no-cache",
		"Expires":       "0",
	})
}
