package interaction

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/veritas/internal/history"
	"github.com/JaimeStill/veritas/pkg/routes"
	"github.com/JaimeStill/veritas/pkg/web"
)

// Layout is the name of the page layout template.
const Layout = "layout"

// Page views.
var (
	IndexView    = web.ViewDef{Template: "index.html", Title: "Fake News Detector"}
	NotFoundView = web.ViewDef{Template: "404.html", Title: "Not Found"}
)

// PageData is rendered by IndexView.
type PageData struct {
	State      State
	Examples   []ExampleView
	ServiceURL string
}

// FuncMap returns the template helpers page templates rely on.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"percent":    func(p float64) int { return history.AnalysisResult{Probability: p}.Percent() },
		"labelClass": LabelClass,
	}
}

// LabelClass returns the CSS class for a verdict.
func LabelClass(l history.Label) string {
	if l == history.LabelFake {
		return "fake"
	}
	return "real"
}

// Views serves the HTML page and its form posts. Every post redirects back
// to the page, which renders the resulting state.
type Views struct {
	ctrl   *Controller
	ts     *web.TemplateSet
	logger *slog.Logger
}

// NewViews creates page handlers rendering through ts.
func NewViews(ctrl *Controller, ts *web.TemplateSet, logger *slog.Logger) *Views {
	return &Views{
		ctrl:   ctrl,
		ts:     ts,
		logger: logger.With("handler", "views"),
	}
}

// Routes returns the page and form routes.
func (v *Views) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: v.Index},
			{Method: "POST", Pattern: "/submit", Handler: v.Submit},
			{Method: "POST", Pattern: "/examples/{index}", Handler: v.SelectExample},
			{Method: "POST", Pattern: "/history/clear", Handler: v.ClearHistory},
		},
	}
}

// NotFound renders the not found page.
func (v *Views) NotFound() http.HandlerFunc {
	return v.ts.ErrorHandler(Layout, NotFoundView, http.StatusNotFound)
}

// Index renders the page.
func (v *Views) Index(w http.ResponseWriter, r *http.Request) {
	v.render(w, http.StatusOK)
}

// Submit analyzes the posted "text" form field.
func (v *Views) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if _, err := v.ctrl.Submit(r.Context(), r.PostFormValue("text")); err != nil {
		if errors.Is(err, ErrBusy) || errors.Is(err, ErrNotReady) {
			v.render(w, MapHTTPStatus(err))
			return
		}
		v.logger.Debug("submission did not produce a result", "error", err)
	}

	v.redirect(w, r)
}

// SelectExample loads the example at the {index} path parameter.
func (v *Views) SelectExample(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err == nil {
		err = v.ctrl.SelectExample(index)
	}
	if err != nil {
		v.NotFound()(w, r)
		return
	}

	v.redirect(w, r)
}

// ClearHistory empties the history.
func (v *Views) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := v.ctrl.ClearHistory(r.Context()); err != nil {
		v.render(w, MapHTTPStatus(err))
		return
	}
	v.redirect(w, r)
}

func (v *Views) render(w http.ResponseWriter, status int) {
	data := PageData{
		State:      v.ctrl.State(),
		Examples:   exampleViews(),
		ServiceURL: v.ctrl.BaseURL(),
	}

	if err := v.ts.Render(w, status, Layout, IndexView, data); err != nil {
		v.logger.Error("render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (v *Views) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, v.ts.BasePath()+"/", http.StatusSeeOther)
}
