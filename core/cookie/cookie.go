package cookie

import (
	"errors"
	"net/http"
	"time"
)

// MaxCookieSize is the size limit browsers reliably accept for one cookie.
const MaxCookieSize = 4096

// Manager sets and reads cookies with shared default attributes.
type Manager struct {
	defaults Options
	maxSize  int
}

// New creates a Manager. Defaults are path "/", HttpOnly and SameSite=Lax
// unless overridden by opts.
func New(opts ...Option) *Manager {
	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}
}

// Defaults returns the manager's default attributes.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Cookie builds a cookie with the manager defaults and opts applied.
func (m *Manager) Cookie(name, value string, opts ...Option) *http.Cookie {
	o := applyOptions(m.defaults, opts)
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
}

// Set writes a cookie to the response.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	c := m.Cookie(name, value, opts...)
	if size := len(c.String()); size > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: size, Max: m.maxSize}
	}
	http.SetCookie(w, c)
	return nil
}

// Get returns the value of the named request cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Expired builds a cookie that instructs the client to drop name.
func (m *Manager) Expired(name string) *http.Cookie {
	c := m.Cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.Expired(name))
}
