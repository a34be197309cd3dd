package intake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// Handler exposes intake sessions over HTTP.
type Handler struct {
	sessions *Sessions
	schema   *Schema
	logger   *logging.Logger
}

// NewHandler creates a new intake handler
func NewHandler(sessions *Sessions, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{sessions: sessions, schema: CoachingSchema, logger: logger}
}

// Routes mounts the intake endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/schema", h.GetSchema)
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.ClearSession)
		r.Put("/fields/{field}", h.UpdateField)
		r.Post("/fields/{field}/blur", h.BlurField)
		r.Post("/advance", h.Advance)
		r.Post("/back", h.Back)
		r.Post("/return", h.ReturnToForm)
	})
	return r
}

// SchemaResponse describes every field and page.
type SchemaResponse struct {
	Pages  int     `json:"pages"`
	Fields []Field `json:"fields"`
}

// GetSchema handles GET /intake/schema
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SchemaResponse{Pages: EntryPages, Fields: h.schema.Fields()})
}

// CreateSessionResponse is returned when a session starts.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	View      View   `json:"view"`
}

// CreateSession handles POST /intake/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	form := h.sessions.Create(r.Context())
	writeJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: form.ID(), View: form.View()})
}

// GetSession handles GET /intake/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form.View())
}

type updateFieldRequest struct {
	Value any `json:"value"`
}

// UpdateField handles PUT /intake/sessions/{sessionID}/fields/{field}
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	var req updateFieldRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		h.logger.Error("failed to decode field update", "error", err)
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := form.UpdateField(r.Context(), chi.URLParam(r, "field"), req.Value); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.View())
}

// BlurResponse carries the single-field validation result.
type BlurResponse struct {
	Field string `json:"field"`
	Error string `json:"error,omitempty"`
	View  View   `json:"view"`
}

// BlurField handles POST /intake/sessions/{sessionID}/fields/{field}/blur
func (h *Handler) BlurField(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "field")
	msg, err := form.BlurField(name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BlurResponse{Field: name, Error: msg, View: form.View()})
}

// TransitionResponse pairs a navigation outcome with the resulting view.
type TransitionResponse struct {
	Transition Transition `json:"transition"`
	View       View       `json:"view"`
}

// Advance handles POST /intake/sessions/{sessionID}/advance
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	tr, err := form.Advance(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TransitionResponse{Transition: tr, View: form.View()})
}

// Back handles POST /intake/sessions/{sessionID}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	tr, err := form.Back()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TransitionResponse{Transition: tr, View: form.View()})
}

// ReturnToForm handles POST /intake/sessions/{sessionID}/return
func (h *Handler) ReturnToForm(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	tr, err := form.ReturnToForm()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TransitionResponse{Transition: tr, View: form.View()})
}

// ClearSession handles DELETE /intake/sessions/{sessionID}?confirm=true
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	form, ok := h.form(w, r)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := form.Clear(r.Context(), confirmed); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.View())
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) (*Form, bool) {
	form, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return form, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		jsonError(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrUnknownField), errors.Is(err, ErrInvalidValue):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSubmissionInFlight):
		jsonError(w, "submission in progress", http.StatusConflict)
	case errors.Is(err, ErrClearNotConfirmed):
		jsonError(w, "Are you sure you want to clear the entire form? Repeat with confirm=true.", http.StatusPreconditionRequired)
	default:
		h.logger.Error("intake request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON encodes before writing the status so an encoding failure becomes
// a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
