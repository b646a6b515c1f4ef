package eddiauth

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/labsai/eddiauth/core/auth"
	"github.com/labsai/eddiauth/core/binder"
	"github.com/labsai/eddiauth/core/csrf"
	"github.com/labsai/eddiauth/core/handler"
	"github.com/labsai/eddiauth/core/logger"
	"github.com/labsai/eddiauth/core/response"
	"github.com/labsai/eddiauth/middleware"
)

const (
	loginPath  = "/auth/login"
	signupPath = "/auth/signup"
	homePath   = "/"

	// SecurityType is reported by /logout/securityType.
	SecurityType = "FORM_BASED"
)

type loginRequest struct {
	Username  string `json:"username" form:"username"`
	Password  string `json:"password" form:"password"`
	CSRFToken string `json:"csrfToken" form:"csrf_token,csrfToken"`
}

type signupRequest struct {
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword,confirm_password"`
	Email           string `json:"email" form:"email"`
	CSRFToken       string `json:"csrfToken" form:"csrf_token,csrfToken"`
}

type csrfTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

type meResponse struct {
	Username string `json:"username"`
}

var bindBody = binder.Body()

func (a *App) loginPage(ctx *Context) handler.Response {
	data := pageData{Username: ctx.Request().URL.Query().Get("username")}
	if ctx.Request().URL.Query().Has("registered") {
		data.Notice = "Registration successful. Please sign in."
	}
	return a.renderPage(ctx, loginPage, data, http.StatusOK)
}

func (a *App) login(ctx *Context) handler.Response {
	var req loginRequest
	if err := bindBody(ctx.Request(), &req); err != nil {
		return a.formFailure(ctx, loginPage, pageData{}, err)
	}
	page := pageData{Username: req.Username}

	if !a.csrf.Validate(ctx, req.CSRFToken) {
		a.logger.WarnContext(ctx, "login rejected: invalid csrf token",
			logger.Component("eddiauth"), logger.Username(req.Username))
		return a.formFailure(ctx, loginPage, page, auth.ErrForbidden)
	}
	if req.Username == "" || req.Password == "" {
		return a.formFailure(ctx, loginPage, page, badRequest("Username and password are required"))
	}

	id, err := a.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			a.logger.WarnContext(ctx, "login failed",
				logger.Component("eddiauth"), logger.Username(req.Username))
		}
		return a.formFailure(ctx, loginPage, page, err)
	}

	sessionCookie := a.cookie.Cookie(a.cookieName, id)
	if ctx.WantsHTML() {
		return response.WithCookie(response.Redirect(homePath, http.StatusSeeOther), sessionCookie)
	}
	return response.WithCookie(response.JSON(Result{
		Success:     true,
		Message:     "Login successful",
		RedirectURL: homePath,
	}), sessionCookie)
}

func (a *App) signupPage(ctx *Context) handler.Response {
	return a.renderPage(ctx, signupPage, pageData{}, http.StatusOK)
}

// signup checks in order: csrf, fields, existing user, then creation.
func (a *App) signup(ctx *Context) handler.Response {
	var req signupRequest
	if err := bindBody(ctx.Request(), &req); err != nil {
		return a.formFailure(ctx, signupPage, pageData{}, err)
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	page := pageData{Username: req.Username, Email: req.Email}

	if !a.csrf.Validate(ctx, req.CSRFToken) {
		a.logger.WarnContext(ctx, "signup rejected: invalid csrf token",
			logger.Component("eddiauth"), logger.Username(req.Username))
		return a.formFailure(ctx, signupPage, page, auth.ErrForbidden)
	}

	if err := requireSignupFields(req); err != nil {
		return a.formFailure(ctx, signupPage, page, err)
	}
	if err := auth.ValidateSignup(req.Username, req.Password, req.ConfirmPassword); err != nil {
		return a.formFailure(ctx, signupPage, page, err)
	}
	if a.auth.UserExists(ctx, req.Username) {
		return a.formFailure(ctx, signupPage, page, auth.ErrAlreadyExists)
	}
	if err := a.auth.AddUser(ctx, req.Username, req.Password, req.Email); err != nil {
		return a.formFailure(ctx, signupPage, page, err)
	}

	if ctx.WantsHTML() {
		return response.Redirect(loginPath+"?registered=1", http.StatusSeeOther)
	}
	return response.JSON(Result{
		Success:     true,
		Message:     "Registration successful",
		RedirectURL: loginPath,
	})
}

func requireSignupFields(req signupRequest) error {
	switch {
	case req.Username == "":
		return badRequest("Username is required")
	case req.Password == "":
		return badRequest("Password is required")
	case req.ConfirmPassword == "":
		return badRequest("Password confirmation is required")
	}
	return nil
}

func (a *App) logout(ctx *Context) handler.Response {
	if id, err := a.cookie.Get(ctx.Request(), a.cookieName); err == nil {
		a.auth.Logout(ctx, id)
	}

	expired := a.cookie.Expired(a.cookieName)
	if ctx.WantsHTML() {
		return response.WithCookie(response.Redirect(loginPath, http.StatusSeeOther), expired)
	}
	return response.WithCookie(response.JSON(Result{
		Success:     true,
		Message:     "Logout successful",
		RedirectURL: loginPath,
	}), expired)
}

func (a *App) csrfToken(ctx *Context) handler.Response {
	token, err := a.csrf.Issue(ctx)
	if err != nil {
		return fail(errors.Join(auth.ErrInternal, err))
	}
	return response.WithNoStore(response.JSON(csrfTokenResponse{CSRFToken: token}))
}

// plainCSRFToken serves the token as text for script clients.
func (a *App) plainCSRFToken(ctx *Context) handler.Response {
	token, err := a.csrf.Issue(ctx)
	if err != nil {
		return fail(errors.Join(auth.ErrInternal, err))
	}
	return response.WithNoStore(response.String(token))
}

func (a *App) userAuthenticated(ctx *Context) handler.Response {
	id, err := a.cookie.Get(ctx.Request(), a.cookieName)
	if err != nil || !a.auth.IsSessionValid(id) {
		return response.WithNoStore(response.String("false"))
	}
	return response.WithNoStore(response.String("true"))
}

func (a *App) securityType(*Context) handler.Response {
	return response.String(SecurityType)
}

func (a *App) me(ctx *Context) handler.Response {
	if name, ok := middleware.GetAuthUsername(ctx); ok {
		return response.JSON(meResponse{Username: name})
	}

	// The gate is disabled; resolve the session here.
	id, err := a.cookie.Get(ctx.Request(), a.cookieName)
	if err != nil || !a.auth.IsSessionValid(id) {
		return fail(auth.ErrUnauthorized)
	}
	name, ok := a.auth.UsernameOf(id)
	if !ok {
		return fail(auth.ErrUnauthorized)
	}
	return response.JSON(meResponse{Username: name})
}

// renderPage renders page with a freshly issued csrf token.
func (a *App) renderPage(ctx *Context, page *template.Template, data pageData, status int) handler.Response {
	token, err := a.csrf.Issue(ctx)
	if err != nil {
		return fail(errors.Join(auth.ErrInternal, err))
	}
	a.logger.DebugContext(ctx, "csrf token issued",
		logger.Component("eddiauth"), logger.Key("token", csrf.Mask(token)))

	data.AppName = a.config.AppName
	data.CSRFToken = token
	return response.WithNoStore(response.TemplateWithStatus(page, data, status))
}

// formFailure answers API clients with a JSON failure and browsers posting
// a form with the same page, the error message and a new token.
func (a *App) formFailure(ctx *Context, page *template.Template, data pageData, err error) handler.Response {
	if !ctx.WantsHTML() {
		return fail(err)
	}

	status, msg := describe(err)
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(ctx, "request failed",
			logger.Component("eddiauth"), logger.Path(ctx.Request().URL.Path), logger.Error(err))
	}
	data.Error = msg
	return a.renderPage(ctx, page, data, status)
}
