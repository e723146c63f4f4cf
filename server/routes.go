// Package server exposes training, encoding and decoding over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/wbrown/char_bpe"
	"github.com/wbrown/char_bpe/envconfig"
)

var ErrStateNotFound = errors.New("trained state not found")

// trainedModel is one stored training result. States are never modified
// after they are stored; re-training stores a new one under a new id.
type trainedModel struct {
	id        string
	state     *char_bpe.TrainedState
	codec     *char_bpe.Codec
	createdAt time.Time
}

type Server struct {
	states           *lru.Cache
	defaultVocabSize int
}

// NewServer returns a Server keeping at most maxStates trained states; the
// least recently used one is evicted first.
func NewServer(maxStates int, defaultVocabSize int) (*Server, error) {
	states, err := lru.NewWithEvict(maxStates, func(key, _ any) {
		slog.Debug("evicting trained state", "id", key)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid state capacity %d: %w", maxStates, err)
	}
	return &Server{
		states:           states,
		defaultVocabSize: defaultVocabSize,
	}, nil
}

func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(cors.New(corsConfig))

	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "char_bpe is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "char_bpe is running") })

	r.POST("/api/train", s.TrainHandler)
	r.POST("/api/encode", s.EncodeHandler)
	r.POST("/api/decode", s.DecodeHandler)
	r.GET("/api/vocab", s.ListHandler)
	r.GET("/api/vocab/:id", s.VocabHandler)
	r.DELETE("/api/vocab/:id", s.DeleteHandler)

	return r
}

func (s *Server) lookup(id string) (*trainedModel, error) {
	if value, ok := s.states.Get(id); ok {
		return value.(*trainedModel), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrStateNotFound, id)
}

// bindJSON reports a bad request and returns false when the body is missing
// or malformed.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	switch {
	case errors.Is(err, io.EOF):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return false
	case err != nil:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) modelFor(c *gin.Context, id string) (*trainedModel, bool) {
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return nil, false
	}
	model, err := s.lookup(id)
	switch {
	case errors.Is(err, ErrStateNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return model, true
}

func (s *Server) TrainHandler(c *gin.Context) {
	var req TrainRequest
	if !bindJSON(c, &req) {
		return
	}
	vocabSize := s.defaultVocabSize
	if req.VocabSize != nil {
		vocabSize = *req.VocabSize
	}

	start := time.Now()
	state := char_bpe.Train(req.Corpus, vocabSize)
	model := &trainedModel{
		id:        uuid.NewString(),
		state:     state,
		codec:     state.NewCodec(),
		createdAt: time.Now(),
	}
	s.states.Add(model.id, model)
	slog.Debug("trained state", "id", model.id, "vocab_size", state.VocabSize(),
		"merges", len(state.Merges()), "duration", time.Since(start))

	c.JSON(http.StatusOK, TrainResponse{
		ID:            model.id,
		VocabSize:     state.VocabSize(),
		BaseSize:      state.BaseSize(),
		Merges:        toMerges(state.Merges()),
		SpecialTokens: state.SpecialTokens(),
	})
}

func (s *Server) EncodeHandler(c *gin.Context) {
	var req EncodeRequest
	if !bindJSON(c, &req) {
		return
	}
	model, ok := s.modelFor(c, req.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, EncodeResponse{
		IDs:     model.codec.Encode(req.Text),
		Symbols: model.codec.EncodeWords(req.Text),
	})
}

func (s *Server) DecodeHandler(c *gin.Context) {
	var req DecodeRequest
	if !bindJSON(c, &req) {
		return
	}
	model, ok := s.modelFor(c, req.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, DecodeResponse{Text: model.codec.Decode(req.IDs)})
}

func (s *Server) VocabHandler(c *gin.Context) {
	id := c.Param("id")
	model, ok := s.modelFor(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, VocabResponse{
		ID:       id,
		BaseSize: model.state.BaseSize(),
		Symbols:  model.state.Symbols(),
		Merges:   toMerges(model.state.Merges()),
	})
}

func (s *Server) ListHandler(c *gin.Context) {
	states := make([]StateInfo, 0, s.states.Len())
	for _, key := range s.states.Keys() {
		// Peek so listing does not change eviction order.
		value, ok := s.states.Peek(key)
		if !ok {
			continue
		}
		model := value.(*trainedModel)
		states = append(states, StateInfo{
			ID:        model.id,
			VocabSize: model.state.VocabSize(),
			Merges:    len(model.state.Merges()),
			CreatedAt: model.createdAt,
		})
	}
	c.JSON(http.StatusOK, ListResponse{States: states})
}

func (s *Server) DeleteHandler(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.modelFor(c, id); !ok {
		return
	}
	s.states.Remove(id)
	c.Status(http.StatusOK)
}

// Serve runs the HTTP API on ln until SIGINT or SIGTERM.
func Serve(ln net.Listener) error {
	level := slog.LevelInfo
	if envconfig.Debug() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))

	s, err := NewServer(int(envconfig.MaxStates()), int(envconfig.VocabSize()))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx, ln)
}

// serve runs the routes on ln until ctx is done, then shuts down gracefully.
func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srvr := &http.Server{
		Handler: s.GenerateRoutes(),
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			5*time.Second)
		defer cancel()
		if err := srvr.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("Listening on " + ln.Addr().String())
	err := srvr.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
