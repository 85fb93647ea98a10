package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-goods/internal/good"
	"github.com/ovaphlow/pitchfork/service-goods/internal/user"
)

// RegisterRoutes mounts the API on a standard library http.ServeMux and wraps
// it with the middleware chain.
func RegisterRoutes(logger *zap.SugaredLogger, users *user.Handler, goods *good.Handler, authn Authenticator) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/login", users.Login)
	mux.HandleFunc("POST /api/register", users.Register)
	mux.HandleFunc("POST /api/refresh", users.Refresh)
	mux.HandleFunc("GET /api/profile", users.Profile)

	mux.HandleFunc("GET /api/users", users.List)
	mux.HandleFunc("GET /api/users/{id}", users.Get)

	mux.HandleFunc("GET /api/goods", goods.List)
	mux.HandleFunc("POST /api/goods", goods.Create)
	mux.HandleFunc("GET /api/goods/my", goods.ListMine)
	mux.HandleFunc("GET /api/goods/{id}", goods.Get)
	mux.HandleFunc("PUT /api/goods/{id}", goods.Update)
	mux.HandleFunc("DELETE /api/goods/{id}", goods.Delete)

	var handler http.Handler = mux
	handler = AuthMiddleware(authn, logger)(handler)
	handler = SecurityHeadersMiddleware()(handler)
	handler = RecoverMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}
