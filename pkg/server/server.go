package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bastiangx/quickmatch/internal/logger"
	"github.com/bastiangx/quickmatch/internal/utils"
	"github.com/bastiangx/quickmatch/pkg/cache"
	"github.com/bastiangx/quickmatch/pkg/config"
	"github.com/bastiangx/quickmatch/pkg/matcher"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers match requests over msgpack IPC.
type Server struct {
	matcher    *matcher.Matcher
	appConfig  *config.Config
	configPath string
	cache      *cache.ResultCache
	log        *log.Logger

	mu       sync.RWMutex
	live     matcher.Config
	requests int
}

// NewServer wraps m. The live config starts as m.Config(). appConfig may be
// nil, in which case defaults are used and nothing can be persisted.
func NewServer(m *matcher.Matcher, appConfig *config.Config, configPath string) *Server {
	if appConfig == nil {
		appConfig = config.DefaultConfig()
		configPath = ""
	}

	s := &Server{
		matcher:    m,
		appConfig:  appConfig,
		configPath: configPath,
		log:        logger.New("server"),
		live:       m.Config(),
	}
	if appConfig.Server.EnableCache {
		s.cache = cache.New(appConfig.Server.CacheSize)
	}
	return s
}

// Start serves on stdin/stdout until stdin is closed.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve writes the ready signal, then handles requests from r until EOF.
// A request that cannot be decoded ends the stream with an error.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	dec := msgpack.NewDecoder(bufio.NewReader(r))

	if err := enc.Encode(StatusResponse{Status: "ready"}); err != nil {
		return fmt.Errorf("failed to send ready signal: %w", err)
	}

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return fmt.Errorf("failed to decode request: %w", err)
		}

		if err := enc.Encode(s.handleRequest(req)); err != nil {
			s.log.Errorf("Encoding response: %v", err)
			return fmt.Errorf("failed to send response: %w", err)
		}
	}
}

// handleRequest dispatches on the action and returns the response to send.
func (s *Server) handleRequest(req Request) any {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	switch req.Action {
	case "", ActionMatch:
		return s.handleMatch(req)
	case ActionConfig:
		return s.handleConfig(req)
	case ActionStats:
		return s.handleStats(req)
	case ActionHealth:
		return StatusResponse{ID: req.ID, Status: "ok"}
	default:
		return errorResponse(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func errorResponse(id, message string, code int) ErrorResponse {
	return ErrorResponse{ID: id, Error: message, Code: code}
}

// liveConfig returns the current config with per-request overrides applied.
func (s *Server) liveConfig(req Request) matcher.Config {
	s.mu.RLock()
	cfg := s.live
	s.mu.RUnlock()

	if req.Limit > 0 {
		cfg = cfg.WithLimit(req.Limit)
	}
	if req.Budget != nil {
		cfg = cfg.WithTrigramBudget(*req.Budget)
	}
	if req.Separators != nil {
		cfg = cfg.WithSeparators(*req.Separators)
	}
	return cfg
}

func (s *Server) handleMatch(req Request) any {
	if req.Query == "" {
		s.log.Debug("Query is empty in request")
		return errorResponse(req.ID, "missing 'q' parameter", 400)
	}

	cfg := s.liveConfig(req)
	start := time.Now()
	items := s.match(req.Query, cfg)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(items))
	results := make([]MatchResult, len(items))
	for i, item := range items {
		results[i] = MatchResult{Item: item, Rank: ranks[i]}
	}

	s.log.Debugf("Took [ %v ] for query '%s', %d results", elapsed, req.Query, len(results))
	return MatchResponse{
		ID:        req.ID,
		Results:   results,
		Count:     len(results),
		TimeTaken: elapsed.Microseconds(),
	}
}

// match consults the result cache before running the query.
func (s *Server) match(query string, cfg matcher.Config) []string {
	if s.cache == nil {
		return s.matcher.MatchWith(query, cfg)
	}

	key := cache.Key(cfg, matcher.Normalize(query))
	if items, ok := s.cache.Get(key); ok {
		return items
	}
	items := s.matcher.MatchWith(query, cfg)
	s.cache.Put(key, items)
	return items
}

func (s *Server) handleConfig(req Request) any {
	if req.Persist && s.configPath == "" {
		return errorResponse(req.ID, "no config file to persist to", 400)
	}

	s.mu.Lock()
	cfg := s.live
	if req.Limit > 0 {
		cfg = cfg.WithLimit(req.Limit)
	}
	if req.Budget != nil {
		cfg = cfg.WithTrigramBudget(*req.Budget)
	}
	if req.Separators != nil {
		cfg = cfg.WithSeparators(*req.Separators)
	}
	s.live = cfg
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.Purge()
	}

	path := ""
	if req.Persist {
		path = s.configPath
	}
	limit, budget, seps := cfg.Limit(), cfg.TrigramBudget(), cfg.Separators()
	if err := s.appConfig.Update(path, &limit, &budget, &seps); err != nil {
		s.log.Errorf("Failed to save config to %s: %v", path, err)
		return errorResponse(req.ID, fmt.Sprintf("failed to save config: %v", err), 500)
	}

	s.log.Debugf("Config updated: limit=[%d], budget=[%d], separators=[%q], persisted=[%t]",
		limit, budget, seps, req.Persist)
	return ConfigResponse{
		ID:            req.ID,
		Status:        "ok",
		Limit:         limit,
		TrigramBudget: budget,
		Separators:    seps,
		Persisted:     req.Persist,
	}
}

func (s *Server) handleStats(req Request) any {
	s.mu.RLock()
	requests := s.requests
	s.mu.RUnlock()

	resp := StatsResponse{
		ID:       req.ID,
		Matcher:  s.matcher.Stats(),
		Requests: requests,
	}
	if s.cache != nil {
		resp.Cache = s.cache.Stats()
	}
	return resp
}
