package handler

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/handler/chat"
	middlewarePkg "github.com/zhouzirui/z-chat/backend/internal/middleware"
)

// Options configures NewRouter.
type Options struct {
	// StaticDir is served at "/" when it exists.
	StaticDir string
	// SecureCookies forces the Secure flag on the user cookie.
	SecureCookies bool
}

// NewRouter wires HTTP routes to core services.
func NewRouter(bot chat.Bot, opts Options, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(middlewarePkg.Compress)

	chatHandler := chat.New(bot, opts.SecureCookies, logger)
	chatHandler.RegisterRoutes(r)

	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
			logger.Info("serving static files", zap.String("dir", opts.StaticDir))
		} else {
			logger.Warn("static dir unavailable, widget page not served", zap.String("dir", opts.StaticDir))
		}
	}

	return r
}
