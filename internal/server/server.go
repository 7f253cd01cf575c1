package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
)

const submitFailedNotice = "We could not record your submission. Please try again."

// Option configures a Handler.
type Option func(*Handler)

// WithSink replaces the default in-memory sink.
func WithSink(sink Sink) Option {
	return func(h *Handler) {
		if sink != nil {
			h.sink = sink
		}
	}
}

// WithRenderer replaces the default HTML renderer.
func WithRenderer(renderer *html.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.renderer = renderer
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// Handler serves the forms of a Store over HTTP:
//
//	GET  /forms                list of form ids and titles
//	GET  /forms/{id}           rendered HTML form, query parameters prefill values
//	GET  /forms/{id}/schema    the FormConfig as JSON
//	POST /forms/{id}           validate and record a submission
//	GET  /assets/*             default stylesheet
type Handler struct {
	store    *loader.Store
	renderer *html.Renderer
	sink     Sink
	logger   *zap.Logger
	now      func() time.Time
	router   chi.Router
}

// New builds a handler for store.
func New(store *loader.Store, options ...Option) (*Handler, error) {
	if store == nil {
		return nil, errors.New("server: store is nil")
	}
	h := &Handler{
		store:  store,
		sink:   NewMemorySink(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.renderer == nil {
		renderer, err := html.New(html.WithLogger(h.logger))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		h.renderer = renderer
	}
	h.router = h.routes()
	return h, nil
}

func (h *Handler) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/forms", h.handleList)
	r.Get("/forms/{id}", h.handleShow)
	r.Post("/forms/{id}", h.handleSubmit)
	r.Get("/forms/{id}/schema", h.handleSchema)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(html.AssetsFS()))))
	return r
}

// ServeHTTP dispatches to the router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (model.FormConfig, bool) {
	id := chi.URLParam(r, "id")
	cfg, ok := h.store.Form(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown form: "+id)
		return model.FormConfig{}, false
	}
	return cfg, true
}

func (h *Handler) handleList(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		ID    string `json:"id"`
		Title string `json:"title,omitempty"`
	}
	ids := h.store.IDs()
	out := make([]entry, 0, len(ids))
	for _, id := range ids {
		cfg, _ := h.store.Form(id)
		out = append(out, entry{ID: id, Title: cfg.Title})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"forms": out})
}

func (h *Handler) handleSchema(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	ctrl := h.controller(cfg, collect(cfg, r.URL.Query()), nil)
	h.renderPage(w, r, ctrl, http.StatusOK, "")
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var posted map[string]any
	if isJSON(r) {
		if err := decodeJSON(r, &posted); err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body: "+err.Error())
			return
		}
		posted = withoutDisabled(cfg, posted)
	} else {
		if err := r.ParseForm(); err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
			return
		}
		posted = collect(cfg, r.PostForm)
	}

	var recorded Submission
	ctrl := h.controller(cfg, posted, func(ctx context.Context, values map[string]any) error {
		recorded = Submission{
			ID:         uuid.NewString(),
			Form:       cfg.ID,
			Values:     values,
			ReceivedAt: h.now().UTC(),
		}
		return h.sink.Record(ctx, recorded)
	})

	outcome, err := ctrl.Submit(r.Context())
	switch {
	case outcome == form.OutcomeInvalid:
		h.logger.Debug("server: submission rejected",
			zap.String("form", cfg.ID),
			zap.Int("errors", len(ctrl.Errors())),
		)
		if isJSON(r) {
			h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": ctrl.Errors()})
			return
		}
		h.renderPage(w, r, ctrl, http.StatusUnprocessableEntity, "")
	case err != nil:
		h.logger.Error("server: record submission", zap.String("form", cfg.ID), zap.Error(err))
		if isJSON(r) {
			h.writeError(w, http.StatusBadGateway, "SUBMIT_FAILED", submitFailedNotice)
			return
		}
		h.renderPage(w, r, ctrl, http.StatusBadGateway, submitFailedNotice)
	default:
		h.logger.Info("server: submission recorded",
			zap.String("form", cfg.ID),
			zap.String("submission", recorded.ID),
		)
		h.writeJSON(w, http.StatusCreated, recorded)
	}
}

func (h *Handler) controller(cfg model.FormConfig, values map[string]any, submit form.SubmitFunc) *form.Controller {
	return form.New(cfg, values,
		form.WithRegistry(h.renderer.Registry()),
		form.WithLogger(h.logger),
		form.WithSubmit(submit),
	)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, ctrl *form.Controller, status int, notice string) {
	markup, err := h.renderer.RenderForm(r.Context(), ctrl, html.FormOptions{
		Action: r.URL.Path,
		Notice: notice,
	})
	if err != nil {
		h.logger.Error("server: render form", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "RENDER_FAILED", "could not render form")
		return
	}
	h.writeHTML(w, status, markup)
}

// collect keeps the last posted value of every enabled field that appears in
// the request. Checkbox inputs post a hidden "false" before the real input,
// so the last value wins.
func collect(cfg model.FormConfig, posted map[string][]string) map[string]any {
	out := make(map[string]any)
	for _, field := range cfg.Fields {
		if field.Disabled {
			continue
		}
		values := posted[field.Name]
		if len(values) == 0 {
			continue
		}
		out[field.Name] = values[len(values)-1]
	}
	return out
}

func withoutDisabled(cfg model.FormConfig, posted map[string]any) map[string]any {
	for _, field := range cfg.Fields {
		if field.Disabled {
			delete(posted, field.Name)
		}
	}
	return posted
}
