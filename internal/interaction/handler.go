package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/veritas/pkg/handlers"
	"github.com/JaimeStill/veritas/pkg/routes"
)

// Prober reports whether the classification service is reachable.
type Prober interface {
	Health(ctx context.Context) error
	BaseURL() string
}

// TextRequest carries user-entered text.
type TextRequest struct {
	Text *string `json:"text"`
}

// ExampleView is one catalog entry as exposed over HTTP.
type ExampleView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ServiceStatus describes classification service reachability.
type ServiceStatus struct {
	BaseURL string `json:"base_url"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// Handler provides JSON endpoints over a Controller.
type Handler struct {
	ctrl   *Controller
	prober Prober
	logger *slog.Logger
}

// NewHandler creates a Handler. prober may be nil, in which case the service
// status endpoint reports the base URL only.
func NewHandler(ctrl *Controller, prober Prober, logger *slog.Logger) *Handler {
	return &Handler{
		ctrl:   ctrl,
		prober: prober,
		logger: logger.With("handler", "interaction"),
	}
}

// Routes returns the route groups for interaction endpoints.
func (h *Handler) Routes() []routes.Group {
	return []routes.Group{
		{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/state", Handler: h.GetState, OpenAPI: ops.state},
				{Method: "PUT", Pattern: "/input", Handler: h.PutInput, OpenAPI: ops.input},
				{Method: "POST", Pattern: "/submit", Handler: h.Submit, OpenAPI: ops.submit},
				{Method: "GET", Pattern: "/service", Handler: h.Service, OpenAPI: ops.service},
			},
		},
		{
			Prefix: "/examples",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.ListExamples, OpenAPI: ops.examples},
				{Method: "POST", Pattern: "/{index}", Handler: h.SelectExample, OpenAPI: ops.selectExample},
			},
		},
		{
			Prefix: "/history",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.ListHistory, OpenAPI: ops.history},
				{Method: "DELETE", Pattern: "", Handler: h.ClearHistory, OpenAPI: ops.clearHistory},
			},
		},
	}
}

// GetState returns the current interaction state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.ctrl.State())
}

// PutInput records the text being edited.
func (h *Handler) PutInput(w http.ResponseWriter, r *http.Request) {
	req, err := decodeText(r)
	if err != nil || req.Text == nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	h.ctrl.SetInput(*req.Text)
	handlers.RespondJSON(w, http.StatusOK, h.ctrl.State())
}

// Submit analyzes the posted text, or the current input when the body
// carries none. Failures respond with the user-facing message.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeText(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	text := h.ctrl.State().InputText
	if req.Text != nil {
		text = *req.Text
	}

	if _, err := h.ctrl.Submit(r.Context(), text); err != nil {
		h.respondSubmitError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.ctrl.State())
}

// ListExamples returns the example catalog.
func (h *Handler) ListExamples(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, exampleViews())
}

// SelectExample loads the example at the {index} path parameter.
func (h *Handler) SelectExample(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrUnknownExample)
		return
	}

	if err := h.ctrl.SelectExample(index); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.ctrl.State())
}

// ListHistory returns the history log, newest first.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.ctrl.History())
}

// ClearHistory empties the history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.ClearHistory(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondNoContent(w)
}

// Service probes the classification service.
func (h *Handler) Service(w http.ResponseWriter, r *http.Request) {
	status := ServiceStatus{BaseURL: h.ctrl.BaseURL()}
	if h.prober != nil {
		if err := h.prober.Health(r.Context()); err != nil {
			status.Error = err.Error()
		} else {
			status.Healthy = true
		}
	}
	handlers.RespondJSON(w, http.StatusOK, status)
}

func (h *Handler) respondSubmitError(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)
	var ie *Error
	if errors.As(err, &ie) {
		handlers.RespondError(w, h.logger, status, errors.New(ie.Message))
		return
	}
	handlers.RespondError(w, h.logger, status, err)
}

func decodeText(r *http.Request) (TextRequest, error) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}
