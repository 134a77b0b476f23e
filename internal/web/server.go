// Package web serves the HarmonyCare pages over gin: one HTML route and one JSON twin per page,
// the health checks and the embedded static assets.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/harmonycare/internal/logging"
	"github.com/Skufu/harmonycare/internal/pages"
	"github.com/Skufu/harmonycare/internal/session"
)

//go:embed assets/templates/*.html assets/static/*
var assets embed.FS

// HealthChecker is anything /readyz can ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options wires the server to its collaborators.
type Options struct {
	Env            pages.Env
	Sessions       *session.Store
	Logger         *zap.Logger
	MaxUploadBytes int64
	AllowOrigins   []string
	// Backend and DB are pinged by /readyz. A nil DB reports "disabled".
	Backend HealthChecker
	DB      HealthChecker
}

// Server is the HTTP front door.
type Server struct {
	env       pages.Env
	sessions  *session.Store
	logger    *zap.Logger
	maxUpload int64
	backend   HealthChecker
	db        HealthChecker
	router    *gin.Engine
}

// New builds the router. Templates are parsed once here; a parse error is a programming error
// and is returned.
func New(opts Options) (*Server, error) {
	s := &Server{
		env:       opts.Env,
		sessions:  opts.Sessions,
		logger:    opts.Logger,
		maxUpload: opts.MaxUploadBytes,
		backend:   opts.Backend,
		db:        opts.DB,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.env.Logger == nil {
		s.env.Logger = s.logger
	}
	if s.sessions == nil {
		s.sessions = session.NewStore(session.DefaultTTL)
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 10 << 20
	}
	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(assets, "assets/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	router := gin.New()
	router.Use(
		logging.Middleware(s.logger),
		gin.Recovery(),
		limitBodySize(s.maxUpload+1<<20),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(static))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.handleReady)

	router.GET("/", s.handleHome)
	router.GET("/home", s.handleHome)

	pageRoutes := router.Group("", s.withSession)
	api := router.Group("/api", s.withSession)
	for _, r := range routes {
		pageRoutes.GET(r.Path, func(c *gin.Context) { s.handlePage(c, r) })
		pageRoutes.POST(r.Path, func(c *gin.Context) { s.handleSubmit(c, r) })
		pageRoutes.POST(r.Path+"/reset", func(c *gin.Context) { s.handleReset(c, r) })

		api.GET(r.Path, func(c *gin.Context) { s.apiView(c, r) })
		api.POST(r.Path, func(c *gin.Context) { s.apiSubmit(c, r) })
		api.PATCH(r.Path, func(c *gin.Context) { s.apiEdit(c, r) })
		api.POST(r.Path+"/reset", func(c *gin.Context) { s.apiReset(c, r) })
	}
	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "notfound", layoutData{Title: "Page not found"})
	})

	s.router = router
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "backend": "ok", "db": "disabled"}
	status := http.StatusOK
	if s.backend != nil {
		if err := s.backend.Ping(ctx); err != nil {
			body["backend"] = fmt.Sprintf("unhealthy: %v", err)
			status = http.StatusServiceUnavailable
		}
	} else {
		body["backend"] = "unconfigured"
	}
	if s.db != nil {
		body["db"] = "ok"
		if err := s.db.Ping(ctx); err != nil {
			body["db"] = fmt.Sprintf("unhealthy: %v", err)
			status = http.StatusServiceUnavailable
		}
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

// withSession resolves the session cookie, starting a new session when needed.
func (s *Server) withSession(c *gin.Context) {
	id, _ := c.Cookie(session.CookieName)
	sess, created := s.sessions.Resolve(id)
	if created || id != sess.ID() {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, sess.ID(), 0, "/", "", false, true)
	}
	c.Set(sessionKey, sess)
	c.Next()
}

const sessionKey = "session"

func sessionOf(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
