// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

package api

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/curadohealth/curado/internal/platform/request"
	"github.com/curadohealth/curado/internal/platform/respond"
)

// # Page Surface

// Pages serves the thin HTML shell of the application. The pages carry no
// business logic; every state-changing action posts to an auth or triage
// endpoint and every protected page relies on the authorization gate
// upstream.
type Pages struct {
	logger   *slog.Logger
	template *template.Template
}

// pageLayout is the shared shell for every HTML page.
const pageLayout = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Curado · {{.Title}}</title></head>
<body>
<header><h1>{{.Title}}</h1></header>
<main>{{.Body}}</main>
</body>
</html>`

// pageData feeds the layout template.
type pageData struct {
	Title string
	Body  template.HTML
}

// NewPages constructs the page handler set.
func NewPages(logger *slog.Logger) *Pages {
	return &Pages{
		logger:   logger,
		template: template.Must(template.New("layout").Parse(pageLayout)),
	}
}

// Routes registers the public and member page endpoints.
func (pages *Pages) Routes(router chi.Router) {
	router.Get("/", pages.home)
	router.Get("/about", pages.about)
	router.Get("/privacy", pages.privacy)
	router.Get("/login", pages.login)
	router.Get("/signup", pages.signup)
	router.Get("/dashboard", pages.dashboard)
}

// render writes the page shell with the given title and body fragment.
func (pages *Pages) render(writer http.ResponseWriter, title string, body string) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.template.Execute(writer, pageData{Title: title, Body: template.HTML(body)}); err != nil {
		pages.logger.Error("page_render_failed", slog.String("page", title), slog.Any("error", err))
	}
}

// home handles GET / (public landing page).
func (pages *Pages) home(writer http.ResponseWriter, request *http.Request) {
	pages.render(writer, "Welcome", `<p>Answer a short questionnaire and get guidance on how soon to seek care.</p>
<p><a href="/signup">Create an account</a> or <a href="/login">log in</a>.</p>`)
}

// about handles GET /about.
func (pages *Pages) about(writer http.ResponseWriter, request *http.Request) {
	pages.render(writer, "About", `<p>Curado helps members describe their symptoms so clinicians can prioritize care.</p>`)
}

// privacy handles GET /privacy.
func (pages *Pages) privacy(writer http.ResponseWriter, request *http.Request) {
	pages.render(writer, "Privacy", `<p>Your answers are visible only to you and the reviewing clinicians.</p>`)
}

// login handles GET /login. The gate bounces authenticated visitors to
// their dashboard before this handler runs.
func (pages *Pages) login(writer http.ResponseWriter, request *http.Request) {
	pages.render(writer, "Log in", `<form method="post" action="/login">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Log in</button>
</form>
<p>New here? <a href="/signup">Sign up</a>.</p>`)
}

// signup handles GET /signup.
func (pages *Pages) signup(writer http.ResponseWriter, request *http.Request) {
	pages.render(writer, "Sign up", `<form method="post" action="/signup">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" minlength="8" required></label>
<button type="submit">Create account</button>
</form>`)
}

// dashboard handles GET /dashboard (authenticated members only).
func (pages *Pages) dashboard(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredUser(request)
	if err != nil {
		// The gate guarantees a session here; a failure means the request
		// bypassed the middleware chain somehow.
		respond.Error(writer, request, err)
		return
	}

	pages.render(writer, "Dashboard", `<p>Signed in as `+template.HTMLEscapeString(user.Email)+`.</p>
<p><a href="/questionnaires">Start a questionnaire</a> · <a href="/intake">My submissions</a></p>
<form method="post" action="/logout"><button type="submit">Log out</button></form>`)
}

// Admin handles GET /admin (clinician console landing).
func (pages *Pages) Admin(writer http.ResponseWriter, request *http.Request) {
	pages.render(writer, "Review queue", `<p>Pending intakes are served at <a href="/admin/intakes">/admin/intakes</a>, most urgent first.</p>`)
}
