// Package web serves the daily task form and its JSON endpoints.
package web

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ghdaily/internal/builder"
	"ghdaily/internal/output"
	"ghdaily/internal/service"
)

//go:embed static/index.html
var indexHTML []byte

// MsgNoToken is returned when no token has been stored with `ghdaily login`.
const MsgNoToken = "No token stored (run: ghdaily login)"

// MsgForbidden is returned for cross-site requests.
const MsgForbidden = "cross-origin request rejected"

const shutdownTimeout = 5 * time.Second

// Server exposes the builder over HTTP.
type Server struct {
	b      *builder.Builder
	log    *zap.Logger
	engine *gin.Engine
}

type issueRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Message string `json:"message"`
	Number  int    `json:"number,omitempty"`
	URL     string `json:"url,omitempty"`
}

// New creates a Server. The builder's token source must not prompt.
func New(b *builder.Builder, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{b: b, log: log}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.GET("/", s.index)
	engine.GET("/healthz", s.health)
	api := engine.Group("/api", sameOrigin())
	api.POST("/issues", s.createIssue)
	api.POST("/workflow", s.triggerWorkflow)
	api.GET("/issue-url", s.issueURL)
	s.engine = engine
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) createIssue(c *gin.Context) {
	if c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, messageResponse{Message: "content type must be application/json"})
		return
	}

	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	created, err := s.b.CreateIssue(c.Request.Context(), req.Text)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, messageResponse{
			Message: output.MsgIssueCreated,
			Number:  created.Number,
			URL:     created.HTMLURL,
		})
	case errors.Is(err, builder.ErrEmptyText):
		c.JSON(http.StatusBadRequest, messageResponse{Message: output.MsgEmptyText})
	case errors.Is(err, builder.ErrNoToken), errors.Is(err, builder.ErrTokenUnavailable):
		c.JSON(http.StatusUnauthorized, messageResponse{Message: MsgNoToken})
	default:
		s.log.Debug("create issue failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, messageResponse{Message: output.IssueFailed(detail(err))})
	}
}

func (s *Server) triggerWorkflow(c *gin.Context) {
	err := s.b.TriggerWorkflow(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, messageResponse{Message: output.MsgWorkflowTriggered})
	case errors.Is(err, builder.ErrNoToken), errors.Is(err, builder.ErrTokenUnavailable):
		c.JSON(http.StatusUnauthorized, messageResponse{Message: MsgNoToken})
	default:
		s.log.Debug("trigger workflow failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, messageResponse{Message: output.WorkflowFailed(detail(err))})
	}
}

func (s *Server) issueURL(c *gin.Context) {
	u, err := s.b.IssueURL(c.Query("text"))
	if err != nil {
		c.JSON(http.StatusBadRequest, messageResponse{Message: output.MsgEmptyText})
		return
	}
	c.JSON(http.StatusOK, messageResponse{URL: u})
}

// sameOrigin rejects state-changing requests sent from other sites.
// Browsers attach Sec-Fetch-Site and Origin to cross-site POSTs.
func sameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		if site := c.GetHeader("Sec-Fetch-Site"); site != "" && site != "same-origin" {
			c.AbortWithStatusJSON(http.StatusForbidden, messageResponse{Message: MsgForbidden})
			return
		}
		if origin := c.GetHeader("Origin"); origin != "" {
			u, err := url.Parse(origin)
			if err != nil || u.Host != c.Request.Host {
				c.AbortWithStatusJSON(http.StatusForbidden, messageResponse{Message: MsgForbidden})
				return
			}
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func detail(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return err.Error()
}
