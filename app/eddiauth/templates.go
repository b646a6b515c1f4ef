package eddiauth

import "html/template"

// pageData feeds the login and signup pages. Values are escaped by
// html/template.
type pageData struct {
	AppName   string
	CSRFToken string
	Error     string
	Notice    string
	Username  string
	Email     string
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.AppName}} - {{template "title" .}}</title>
<style>
body{font-family:system-ui,sans-serif;background:#f4f5f7;display:flex;justify-content:center;padding-top:10vh}
form{background:#fff;padding:2rem;border-radius:8px;width:320px;box-shadow:0 1px 4px rgba(0,0,0,.1)}
label{display:block;margin-top:1rem;font-size:.9rem}
input{width:100%;padding:.5rem;margin-top:.25rem;box-sizing:border-box}
button{margin-top:1.5rem;width:100%;padding:.6rem}
.error{color:#b00020}.notice{color:#1b5e20}
</style>
</head>
<body>
{{template "form" .}}
</body>
</html>{{end}}`

var loginPage = template.Must(template.Must(template.New("login").Parse(layout)).Parse(`
{{define "title"}}Sign in{{end}}
{{define "form"}}<form method="post" action="/auth/login">
<h1>Sign in</h1>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{with .Notice}}<p class="notice">{{.}}</p>{{end}}
<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
<label>Username<input name="username" value="{{.Username}}" autocomplete="username" required></label>
<label>Password<input type="password" name="password" autocomplete="current-password" required></label>
<button type="submit">Sign in</button>
<p><a href="/auth/signup">Create an account</a></p>
</form>{{end}}
{{template "layout" .}}`))

var signupPage = template.Must(template.Must(template.New("signup").Parse(layout)).Parse(`
{{define "title"}}Create account{{end}}
{{define "form"}}<form method="post" action="/auth/signup">
<h1>Create account</h1>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
<label>Username<input name="username" value="{{.Username}}" pattern="[a-zA-Z0-9_-]{3,20}" autocomplete="username" required></label>
<label>Email<input type="email" name="email" value="{{.Email}}" autocomplete="email"></label>
<label>Password<input type="password" name="password" minlength="6" autocomplete="new-password" required></label>
<label>Confirm password<input type="password" name="confirmPassword" minlength="6" autocomplete="new-password" required></label>
<button type="submit">Create account</button>
<p><a href="/auth/login">Already registered? Sign in</a></p>
</form>{{end}}
{{template "layout" .}}`))
