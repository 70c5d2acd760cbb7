package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/verbridge/internal/auth"
	"github.com/danmuck/verbridge/internal/bridge"
	"github.com/danmuck/verbridge/internal/config"
	"github.com/danmuck/verbridge/internal/fix"
	"github.com/danmuck/verbridge/internal/observability"
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/session"
	"github.com/danmuck/verbridge/internal/version"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Bridge is the read and selection surface the admin server exposes.
type Bridge interface {
	Versions() []version.Version
	Schemas(ver string) []schema.Schema
	ActiveFixes(ver string) ([]fix.Unit, error)
	Sessions() []session.Info
	Servers() []config.Server
	SelectVersion(address, ver string) error
	Installers() []bridge.InstallerMetadata
}

// Options configures the admin server.
type Options struct {
	CorsOrigins []string
	// WriteAuth guards mutating routes. Nil leaves them open.
	WriteAuth auth.Validator
}

type Server struct {
	bridge   Bridge
	opts     Options
	hub      *NoticeHub
	router   *gin.Engine
	upgrader websocket.Upgrader
	appeared time.Time
}

func New(b Bridge, hub *NoticeHub, opts Options) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestObserver(log.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(opts.CorsOrigins),
		AllowMethods: []string{"GET", "PUT"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		bridge: b,
		opts:   opts,
		hub:    hub,
		router: r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(normalizeOrigins(opts.CorsOrigins)),
		},
		appeared: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": "verbridge",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/installers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"installers": s.bridge.Installers()})
	})

	r.GET("/versions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"versions": s.bridge.Versions()})
	})

	r.GET("/versions/:version/schemas", func(c *gin.Context) {
		ver := c.Param("version")
		if !s.knownVersion(ver) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown version"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"version": ver, "schemas": schemaViews(s.bridge.Schemas(ver))})
	})

	r.GET("/fixes/:version", func(c *gin.Context) {
		ver := c.Param("version")
		units, err := s.bridge.ActiveFixes(ver)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, version.ErrUnknownVersion) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"version": ver, "fixes": units})
	})

	r.GET("/sessions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessions": s.bridge.Sessions()})
	})

	r.GET("/sessions/notices", func(c *gin.Context) {
		if !websocket.IsWebSocketUpgrade(c.Request) {
			c.JSON(http.StatusOK, gin.H{"notices": s.hub.Recent(c.Query("session"))})
			return
		}
		conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("admin.notices upgrade")
			return
		}
		s.hub.Serve(conn)
	})

	r.GET("/sessions/:id", func(c *gin.Context) {
		id := c.Param("id")
		for _, info := range s.bridge.Sessions() {
			if info.ID == id {
				c.JSON(http.StatusOK, gin.H{"session": info, "notices": s.hub.Recent(id)})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
	})

	r.GET("/servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"servers": s.bridge.Servers()})
	})

	r.PUT("/servers/:address", s.requireWriteAuth(), func(c *gin.Context) {
		var body struct {
			Version string `json:"version"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		address := c.Param("address")
		if err := s.bridge.SelectVersion(address, body.Version); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, version.ErrUnknownVersion) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "address": address, "version": body.Version})
	})
}

func (s *Server) requireWriteAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.WriteAuth == nil {
			c.Next()
			return
		}
		token, _ := auth.BearerToken(c.GetHeader("Authorization"))
		if err := s.opts.WriteAuth.Validate(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (s *Server) knownVersion(id string) bool {
	for _, v := range s.bridge.Versions() {
		if v.ID == id {
			return true
		}
	}
	return false
}

type fieldView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Order   string `json:"order,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
	Default bool   `json:"has_default,omitempty"`
}

type schemaView struct {
	Type      string      `json:"type"`
	Direction string      `json:"direction"`
	PacketID  int32       `json:"packet_id"`
	Fields    []fieldView `json:"fields"`
	Drops     []string    `json:"drops,omitempty"`
}

func schemaViews(in []schema.Schema) []schemaView {
	out := make([]schemaView, 0, len(in))
	for _, s := range in {
		v := schemaView{Type: s.Type, Direction: s.Direction.String(), PacketID: s.PacketID, Drops: s.Drops}
		for _, f := range s.Fields {
			fv := fieldView{Name: f.Name, Kind: f.Kind.String(), Default: f.Default != nil}
			if f.Order != 0 {
				fv.Order = f.Order.String()
			}
			if f.Prefix != 0 {
				fv.Prefix = f.Prefix.String()
			}
			v.Fields = append(v.Fields, fv)
		}
		out = append(out, v)
	}
	return out
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

// originChecker admits requests without an Origin header and browser requests
// from an allowed origin.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(origin, a) {
				return true
			}
		}
		return false
	}
}
