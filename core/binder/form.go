package binder

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxMemory bounds in-memory multipart parsing.
const DefaultMaxMemory = 1 << 20

// Form binds url-encoded and multipart form values into fields tagged
// `form:"name"`. A tag may list alternatives, `form:"csrf_token,csrfToken"`;
// the first present name wins. File parts are ignored.
func Form() Binder {
	return func(r *http.Request, v any) error {
		mt := mediaType(r)
		switch {
		case mt == "application/x-www-form-urlencoded":
			r.Body = http.MaxBytesReader(nil, r.Body, DefaultMaxBodySize)
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			return bindToStruct(v, "form", r.PostForm, ErrFailedToParseForm)

		case strings.HasPrefix(mt, "multipart/form-data"):
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			defer func() { _ = r.MultipartForm.RemoveAll() }()
			return bindToStruct(v, "form", r.MultipartForm.Value, ErrFailedToParseForm)

		case mt == "":
			return fmt.Errorf("%w: expected a form body", ErrMissingContentType)

		default:
			return fmt.Errorf("%w: got %s, expected a form body", ErrUnsupportedMediaType, mt)
		}
	}
}
