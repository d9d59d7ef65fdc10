// Package server implements the speech scoring HTTP endpoint.
package server

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/tuispeak/internal/evaluator"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/store"
)

const (
	defaultRecordsLimit = 10
	maxRecordsLimit     = 500
	shutdownGrace       = 5 * time.Second
)

// RecordStore persists practice records.
type RecordStore interface {
	InsertRecord(ctx context.Context, rec model.PracticeRecord) (int64, error)
	ListRecords(ctx context.Context, f store.RecordFilter) ([]model.PracticeRecord, error)
	Ping(ctx context.Context) error
}

// Server serves the scoring API.
type Server struct {
	engine *gin.Engine
	store  RecordStore
	scorer Scorer
	logger logging.Logger
	now    func() time.Time
}

// New builds the gin engine and registers routes.
func New(st RecordStore, scorer Scorer, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine: gin.New(),
		store:  st,
		scorer: scorer,
		logger: logger,
		now:    time.Now,
	}
	s.engine.Use(gin.Recovery(), s.accessLog(), cors.Default())
	s.engine.POST(evaluator.EvaluatePath, s.evaluate)
	s.engine.GET(evaluator.RecordsPath, s.records)
	s.engine.GET("/healthz", s.healthz)
	return s
}

// Handler exposes the engine for tests and embedding.
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
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Infow("scoring server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Infow("scoring server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Infow("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func (s *Server) evaluate(c *gin.Context) {
	var req model.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ScoreResult{Success: false, Error: "invalid request: " + err.Error()})
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ScoreResult{Success: false, Error: "audio is not valid base64"})
		return
	}

	res := s.scorer.Score(req, audio)
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	rec := model.PracticeRecord{
		SessionID:          sessionID,
		Topic:              req.Topic,
		Text:               req.Text,
		Score:              res.Score,
		PronunciationScore: res.PronunciationScore,
		FluencyScore:       res.FluencyScore,
		Feedback:           res.Feedback,
		AudioBytes:         len(audio),
		PracticedAt:        s.now(),
	}
	// A failed save does not fail the evaluation.
	if _, err := s.store.InsertRecord(c.Request.Context(), rec); err != nil {
		s.logger.Errorw("failed to save practice record", "session", sessionID, "error", err)
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) records(c *gin.Context) {
	limit := defaultRecordsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRecordsLimit {
			c.JSON(http.StatusBadRequest, model.RecordsResponse{Success: false, Error: "invalid limit"})
			return
		}
		limit = n
	}
	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := parseSince(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.RecordsResponse{Success: false, Error: "invalid since"})
			return
		}
		since = &t
	}
	recs, err := s.store.ListRecords(c.Request.Context(), store.RecordFilter{
		Topic: c.Query("topic"),
		Since: since,
		Limit: limit,
	})
	if err != nil {
		s.logger.Errorw("failed to list practice records", "error", err)
		c.JSON(http.StatusInternalServerError, model.RecordsResponse{Success: false, Error: "failed to list records"})
		return
	}
	if recs == nil {
		recs = []model.PracticeRecord{}
	}
	c.JSON(http.StatusOK, model.RecordsResponse{Success: true, Records: recs})
}

// parseSince accepts an RFC3339 timestamp or a bare UTC date.
func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
