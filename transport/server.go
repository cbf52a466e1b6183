package transport

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"timeline-lab/errors"
	"timeline-lab/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

func (c RouterConfig) allowAll() bool {
	return len(c.AllowedOrigins) == 0 || slices.Contains(c.AllowedOrigins, "*")
}

// NewRouter serves /api/health and the /ws session endpoint.
// ctx bounds the lifetime of every websocket session.
func NewRouter(ctx context.Context, log *slog.Logger, config RouterConfig, hub *Hub, service services.IGameService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}
	if config.allowAll() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AllowedOrigins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler := &sessionHandler{
		ctx:        ctx,
		log:        log,
		config:     config,
		hub:        hub,
		service:    service,
		dispatcher: NewDispatcher(service),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return config.allowAll() || origin == "" || slices.Contains(config.AllowedOrigins, origin)
			},
		},
	}
	r.GET("/ws", handler.serve)
	return r
}

type sessionHandler struct {
	ctx        context.Context
	log        *slog.Logger
	config     RouterConfig
	hub        *Hub
	service    services.IGameService
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
}

// serve owns one websocket session from upgrade to disconnect.
func (h *sessionHandler) serve(c *gin.Context) {
	socket, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "ip", c.ClientIP(), "error", err)
		return
	}

	connID := uuid.NewString()
	limiter := rate.NewLimiter(rate.Limit(h.config.RateLimitPerSecond), h.config.RateLimitBurst)
	conn := NewConnection(connID, socket, limiter, h.log)

	h.hub.Register(connID, conn)
	h.service.Connect(connID)
	h.log.Debug("Player connected", "player_id", connID)
	go conn.WritePump()

	// A server shutdown must unblock the pending read.
	stop := context.AfterFunc(h.ctx, conn.Close)
	defer stop()

	conn.ReadPump(h.ctx,
		func(frame []byte) { h.dispatcher.Dispatch(h.ctx, connID, frame) },
		func() { h.service.Fail(connID, errors.ErrRateLimited) },
	)

	// On shutdown the players keep their seats so the final save holds
	// every live room.
	if h.ctx.Err() == nil {
		h.service.Disconnect(connID)
	}
	h.hub.Remove(connID)
	conn.Close()
	h.log.Debug("Player disconnected", "player_id", connID)
}
