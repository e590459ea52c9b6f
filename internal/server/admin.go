package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/observability"
)

// clientInfo is the admin-surface view of one registered client.
type clientInfo struct {
	Addr     string    `json:"addr"`
	LastSeen time.Time `json:"last_seen"`
}

func (s *Service) adminRouter() *gin.Engine {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.Telemetry(s.cfg.Name, log.Logger))
	if len(s.cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.cfg.CorsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"name":      s.cfg.Name,
			"uptime":    s.clock.Since(s.startedAt).String(),
			"clients":   s.reg.Len(),
			"data_file": s.cfg.DataFile,
		})
	})

	r.GET("/clients", func(c *gin.Context) {
		entries := s.reg.Entries()
		list := make([]clientInfo, 0, len(entries))
		for _, e := range entries {
			list = append(list, clientInfo{Addr: e.Addr.String(), LastSeen: e.LastSeen})
		}
		c.JSON(http.StatusOK, gin.H{"clients": list})
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
