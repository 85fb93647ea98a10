package good

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
	"github.com/ovaphlow/pitchfork/service-goods/internal/httpx"
)

// Handler exposes the goods endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, logger: logger}
}

// CreateRequest is the POST /api/goods body.
type CreateRequest struct {
	Name    string  `json:"name"`
	Comment *string `json:"comment"`
	Count   *int    `json:"count"`
}

// UpdateRequest is the PUT /api/goods/{id} body. Comment stays raw so an
// explicit null can be told apart from an absent field.
type UpdateRequest struct {
	Name    *string         `json:"name"`
	Comment json.RawMessage `json:"comment"`
	Count   *int            `json:"count"`
}

func (req UpdateRequest) input() (UpdateInput, error) {
	in := UpdateInput{Name: req.Name, Count: req.Count}
	switch {
	case len(req.Comment) == 0:
	case bytes.Equal(bytes.TrimSpace(req.Comment), []byte("null")):
		in.ClearComment = true
	default:
		var c string
		if err := json.Unmarshal(req.Comment, &c); err != nil {
			return in, httpx.ErrInvalidPayload
		}
		in.Comment = &c
	}
	return in, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	goods, err := h.svc.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewReadViews(goods))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	goods, err := h.svc.ListMine(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewReadViews(goods))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.WriteError(w, h.logger, ErrNotFound)
		return
	}
	g, owner, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewDetailView(g, owner))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if identity == nil {
		httpx.WriteError(w, h.logger, auth.ErrUnauthorized)
		return
	}
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.logger.Debugw("invalid good payload", "err", err)
		httpx.WriteError(w, h.logger, err)
		return
	}
	g, err := h.svc.Create(r.Context(), identity, CreateInput{Name: req.Name, Comment: req.Comment, Count: req.Count})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, NewReadView(g))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if identity == nil {
		httpx.WriteError(w, h.logger, auth.ErrUnauthorized)
		return
	}
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.WriteError(w, h.logger, ErrNotFound)
		return
	}
	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	in, err := req.input()
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	g, err := h.svc.Update(r.Context(), identity, id, in)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewReadView(g))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())
	if identity == nil {
		httpx.WriteError(w, h.logger, auth.ErrUnauthorized)
		return
	}
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.WriteError(w, h.logger, ErrNotFound)
		return
	}
	if err := h.svc.Delete(r.Context(), identity, id); err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
