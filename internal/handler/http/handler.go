package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/realtime"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/gorilla/websocket"
)

type Handler struct {
	services *service.Services
	hub      *realtime.Hub

	upgrader   websocket.Upgrader
	sessionIDs *utils.UUIDGenerator
	sendBuffer int

	// assetsDir is served under /assets/ when images are kept on local disk.
	assetsDir string

	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, hub *realtime.Hub, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	requestTimeout := cfg.Server.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = config.DefaultRequestTimeout
	}

	var assetsDir string
	if cfg.Storage.Assets.S3.Endpoint == "" {
		assetsDir = cfg.Storage.Assets.Dir
	}

	return &Handler{
		services: services,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.Server.AllowedOrigins),
		},
		sessionIDs:     utils.NewUUIDGenerator(),
		sendBuffer:     cfg.Realtime.SendBuffer,
		assetsDir:      assetsDir,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// checkOrigin accepts requests without an Origin header, same-origin
// requests and origins listed in allowed. "*" allows everything.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), origin) {
				return true
			}
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
