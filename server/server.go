// Package server exposes translation over HTTP.
//
//	GET  /?query=…&dialect=…   translate, {"result": …} or a rename descriptor
//	POST /evaluate              evaluate over relations sent in the body
//	GET  /ui                    HTML form
//	GET  /healthz
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ratst-engine/ratst"
	"github.com/ratst-engine/ratst/cache"
	"github.com/ratst-engine/ratst/engine/eval"
	"github.com/ratst-engine/ratst/engine/translator"
	"github.com/ratst-engine/ratst/mapping"
)

// GenericError is the fixed "error" field of every failure response
const GenericError = "Sorry an error occurred, Try again."

// Server translates requests
type Server struct {
	cfg   Config
	cache cache.Cache
	log   *zap.Logger
	pages *pages
}

// New creates a server. A nil cache disables caching, a nil logger
// disables logging.
func New(cfg Config, c cache.Cache, log *zap.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	p, err := newPages()
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, cache: c, log: log, pages: p}, nil
}

// Handler returns the routes wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleTranslate)
	mux.HandleFunc("POST /evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /ui", s.handleUI)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.String("dialect", s.cfg.Dialect))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		s.fail(w, http.StatusBadRequest, errors.New("missing query parameter"))
		return
	}

	result, err := s.translate(r.Context(), query, r.URL.Query().Get("dialect"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	body, err := result.Struct()
	if err != nil {
		s.log.Error("encode result", zap.Error(err))
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.write(w, http.StatusOK, body)
}

type evaluateRequest struct {
	Query     string          `json:"query"`
	Relations json.RawMessage `json:"relations"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Query == "" {
		s.fail(w, http.StatusBadRequest, errors.New("missing query"))
		return
	}
	bindings, err := eval.DecodeBindings(bytes.NewReader(req.Relations))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	rel, err := ratst.Evaluate(req.Query, bindings)
	if err != nil {
		s.log.Info("evaluation failed", zap.String("query", req.Query), zap.Error(err))
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	body, err := relationStruct(rel)
	if err != nil {
		s.log.Error("encode relation", zap.Error(err))
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.write(w, http.StatusOK, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body, _ := structpb.NewStruct(map[string]any{"status": "ok"})
	s.write(w, http.StatusOK, body)
}

// translate consults the cache before running the pipeline
func (s *Server) translate(ctx context.Context, query, dialect string) (*translator.Result, error) {
	if dialect == "" {
		dialect = s.cfg.Dialect
	}
	normalized, ok := mapping.NormalizeDialect(dialect)
	if !ok {
		return nil, fmt.Errorf("%w: %s", translator.ErrUnsupportedDialect, dialect)
	}

	if result, hit, err := s.cache.Get(ctx, normalized, query); err != nil {
		s.log.Warn("cache get", zap.Error(err))
	} else if hit {
		s.log.Debug("cache hit", zap.String("dialect", normalized), zap.String("query", query))
		return result, nil
	}

	result, err := ratst.Translate(query,
		ratst.WithDialect(normalized),
		ratst.WithValidation(s.cfg.ValidateOutput),
		ratst.WithPluralCollections(s.cfg.Pluralize),
	)
	if err != nil {
		s.log.Info("translation failed",
			zap.String("query", query),
			zap.String("dialect", normalized),
			zap.String("stage", ratst.Stage(err)),
			zap.Error(err))
		return nil, err
	}

	if err := s.cache.Set(ctx, normalized, query, result); err != nil {
		s.log.Warn("cache set", zap.Error(err))
	}
	return result, nil
}

// ============================================================================
// RESPONSES
// ============================================================================

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	body, _ := structpb.NewStruct(map[string]any{
		"error":         GenericError,
		"error_message": err.Error(),
	})
	s.write(w, status, body)
}

func (s *Server) write(w http.ResponseWriter, status int, body *structpb.Struct) {
	data, err := protojson.Marshal(body)
	if err != nil {
		s.log.Error("marshal response", zap.Error(err))
		http.Error(w, GenericError, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.log.Debug("write response", zap.Error(err))
	}
}

func relationStruct(r *eval.Relation) (*structpb.Struct, error) {
	attributes := make([]any, len(r.Attributes))
	for i, a := range r.Attributes {
		attributes[i] = a
	}
	tuples := make([]any, len(r.Tuples))
	for i, t := range r.Tuples {
		row := make([]any, len(t))
		for j, v := range t {
			row[j] = v
		}
		tuples[i] = row
	}
	return structpb.NewStruct(map[string]any{
		"name":       r.Name,
		"attributes": attributes,
		"tuples":     tuples,
	})
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("dialect", r.URL.Query().Get("dialect")),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
