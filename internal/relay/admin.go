package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/observability"
)

func (s *Service) adminRouter() *gin.Engine {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.Telemetry(s.cfg.Name, log.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"name":             s.cfg.Name,
			"uptime":           s.clock.Since(s.startedAt).String(),
			"server":           s.cfg.ServerAddr,
			"server_reachable": s.ServerReachable(),
			"packets":          s.PacketsReceived(),
			"forwarded":        s.LinesForwarded(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Service) serveAdmin(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.AdminListenAddr,
		Handler: s.adminRouter(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", s.cfg.AdminListenAddr).Msg("admin surface listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
