package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/openlodging/mediasync/internal/api"
	"github.com/openlodging/mediasync/internal/config"
	"github.com/openlodging/mediasync/internal/logger"
	"github.com/openlodging/mediasync/internal/service"
	"github.com/openlodging/mediasync/internal/validation"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	docs := do.MustInvoke[*MediaDBHandle](i)
	cat := do.MustInvoke[*CatalogHandle](i)
	mediaService := do.MustInvoke[*service.MediaService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(
		mediaService,
		docs.Store,
		cat.Store,
		validator,
		limiter.KeyedRateLimiter,
		cfg,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
