// Package http is the JSON API over the aggregation and projection engine.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"nidhi/internal/amqp"
	"nidhi/internal/cache"
	"nidhi/internal/core"
	"nidhi/internal/engine"
	"nidhi/internal/log"
	"nidhi/internal/middleware/ratelimit"
	"nidhi/internal/middleware/security"
	"nidhi/internal/middleware/trace"
)

// Store is the slice of the repository the API needs.
type Store interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) error
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)

	GetSnapshot(ctx context.Context) (core.AssetSnapshot, error)
	SaveSnapshot(ctx context.Context, snap core.AssetSnapshot) error

	AddInvestment(ctx context.Context, inv core.Investment) error
	ListInvestments(ctx context.Context) ([]core.Investment, error)
	DeleteInvestment(ctx context.Context, id string) error

	GetNAVHistory(ctx context.Context, scheme string) ([]core.NAVPoint, error)
	LatestNAVs(ctx context.Context) (map[string]float64, error)
}

// Publisher notifies the sync worker about transaction changes. Nil disables
// publishing; the API stays functional without a broker.
type Publisher interface {
	PublishSummarySync(ctx context.Context, msg *amqp.SummarySyncMessage) error
}

// Options carries the budget and projection configuration into the server.
type Options struct {
	MonthlyBudget    decimal.Decimal
	AnnualReturnRate float64
	Logger           *log.Logger

	// RateLimitPerMinute caps requests per client IP. Zero means the
	// ratelimit package default.
	RateLimitPerMinute int
}

type Server struct {
	http.Server

	store      Store
	publisher  Publisher
	classifier engine.Classifier
	logger     *log.Logger

	monthlyBudget    decimal.Decimal
	annualReturnRate float64

	// Window-keyed caches, purged whole on any mutation so a write is never
	// followed by a stale read.
	summaryCache *cache.LRU[summaryResponse]
	splitCache   *cache.LRU[splitResponse]

	limiter *ratelimit.Limiter

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once

	// now is injectable so handler tests can pin the clock.
	now func() time.Time
}

// NewServer wires routes and caches, returning a ready-to-run server.
func NewServer(addr string, store Store, publisher Publisher, classifier engine.Classifier, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.FromEnv("http"))
	}

	s := &Server{
		store:            store,
		publisher:        publisher,
		classifier:       classifier,
		logger:           logger,
		monthlyBudget:    opts.MonthlyBudget,
		annualReturnRate: opts.AnnualReturnRate,
		summaryCache:     cache.NewLRU[summaryResponse](100, 5*time.Minute),
		splitCache:       cache.NewLRU[splitResponse](100, 5*time.Minute),
		limiter:          ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		stopCacheCleanup: make(chan struct{}),
		now:              time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/summary/split", s.handleSummarySplit)
	mux.HandleFunc("GET /api/budget", s.handleBudget)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/snapshot", s.handleGetSnapshot)
	mux.HandleFunc("PUT /api/snapshot", s.handleSaveSnapshot)
	mux.HandleFunc("GET /api/investments", s.handleListInvestments)
	mux.HandleFunc("POST /api/investments", s.handleAddInvestment)
	mux.HandleFunc("DELETE /api/investments/{id}", s.handleDeleteInvestment)

	mux.HandleFunc("GET /api/networth", s.handleNetWorth)
	mux.HandleFunc("GET /api/goal", s.handleGoal)
	mux.HandleFunc("GET /api/fd", s.handleFD)
	mux.HandleFunc("GET /api/funds/{scheme}/returns", s.handleFundReturns)

	resolver := security.NewResolver()
	var handler http.Handler = mux
	handler = log.Middleware(logger)(handler)
	handler = s.limiter.Middleware(resolver.ExtractClientIP)(handler)
	handler = trace.Middleware(handler)
	handler = security.Headers(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go s.startCacheCleanup()
	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.summaryCache.CleanExpired() + s.splitCache.CleanExpired()
			if cleaned > 0 {
				s.logger.Debug("cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutine and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateSummaries drops every cached window. Proration makes a single
// write touch many months, so per-key invalidation is not worth the bookkeeping.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
	s.splitCache.Purge()
}

// publishChange notifies the worker, best effort. A dead broker must not fail
// the write that already committed.
func (s *Server) publishChange(ctx context.Context, txID, action string, date core.Date) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewSummarySyncMessage(txID, action, date)
	if err := s.publisher.PublishSummarySync(ctx, msg); err != nil {
		s.logger.Error("failed to publish summary sync message",
			"transaction_id", txID,
			"action", action,
			"error", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
