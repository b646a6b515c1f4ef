package response

import (
	"net/http"

	"github.com/labsai/eddiauth/core/handler"
)

// Redirect replies with a redirect to url. Status defaults to 303 See Other.
func Redirect(url string, status int) handler.Response {
	if status == 0 {
		status = http.StatusSeeOther
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, status)
		return nil
	}
}
