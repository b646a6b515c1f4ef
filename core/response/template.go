package response

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
)

var errNilTemplate = errors.New("template is nil")

// Template renders tmpl with data as HTML. Output is buffered so a template
// error never produces a partial page.
func Template(tmpl *template.Template, data any) handler.Response {
	return TemplateWithStatus(tmpl, data, http.StatusOK)
}

// TemplateWithStatus renders tmpl with a custom status code.
func TemplateWithStatus(tmpl *template.Template, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if tmpl == nil {
			return errNilTemplate
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, err := w.Write(buf.Bytes())
		return err
	}
}
