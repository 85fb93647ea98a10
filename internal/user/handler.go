package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-goods/internal/auth"
	"github.com/ovaphlow/pitchfork/service-goods/internal/httpx"
)

// Handler exposes the account endpoints.
type Handler struct {
	svc    *AuthService
	logger *zap.SugaredLogger
}

func NewHandler(svc *AuthService, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{svc: svc, logger: logger}
}

// CredentialsRequest is the login and register payload. Login ignores Name.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	Token string      `json:"token"`
	User  MinimalView `json:"user"`
}

// RegisterResponse is returned by register.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    MinimalView `json:"user"`
}

// ProfileResponse wraps the caller's detailed view.
type ProfileResponse struct {
	User DetailView `json:"user"`
}

// decodeCredentials reads a JSON body, or form fields when the request is a form post.
func decodeCredentials(r *http.Request, dst *CredentialsRequest) error {
	if httpx.IsForm(r) {
		vals, err := httpx.FormValues(r, "email", "password", "name")
		if err != nil {
			return err
		}
		dst.Email, dst.Password, dst.Name = vals["email"], vals["password"], vals["name"]
		return nil
	}
	return httpx.DecodeJSON(r, dst)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeCredentials(r, &req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		httpx.WriteError(w, h.logger, err)
		return
	}
	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debugw("login failed", "err", err)
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: sess.Token, User: NewMinimalView(sess.User)})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeCredentials(r, &req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		httpx.WriteError(w, h.logger, err)
		return
	}
	u, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.logger.Debugw("register failed", "err", err)
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{Message: "User registered successfully", User: NewMinimalView(u)})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Refresh(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: sess.Token, User: NewMinimalView(sess.User)})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ProfileResponse{User: NewDetailView(u)})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewDetailViews(users))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r)
	if !ok {
		httpx.WriteError(w, h.logger, ErrNotFound)
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewDetailView(u))
}
