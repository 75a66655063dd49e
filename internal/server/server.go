package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microbooks/microbooks/internal/store"
)

type Server struct {
	store  *store.Store
	router chi.Router
	addr   string
	log    *slog.Logger
}

func New(st *store.Store, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	s := &Server{store: st, router: r, addr: addr, log: logger}

	r.Route("/api/v1", func(r chi.Router) {
		// Accounts
		r.Post("/accounts", s.createAccount)
		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}", s.getAccount)
		r.Get("/accounts/{id}/balance", s.getAccountBalance)
		r.Get("/accounts/{id}/ledger", s.getAccountLedger)
		r.Patch("/accounts/{id}", s.updateAccount)
		r.Delete("/accounts/{id}", s.deleteAccount)

		// Documents, one family of routes per kind
		r.Post("/documents/{kind}", s.createDocument)
		r.Get("/documents", s.listDocuments)
		r.Get("/documents/{kind}/{id}", s.getDocument)
		r.Delete("/documents/{kind}/{id}", s.deleteDocument)

		// Reports
		r.Get("/reports/trial-balance", s.trialBalance)
		r.Get("/reports/gl-summary", s.ledgerSummary)
		r.Get("/reports/pnl", s.profitAndLoss)
		r.Get("/reports/balance-sheet", s.balanceSheet)
		r.Get("/reports/receivables", s.receivables)
		r.Get("/reports/payables", s.payables)
		r.Get("/reports/sales-by-customer", s.salesByCustomer)
		r.Get("/reports/sales-by-item", s.salesByItem)
		r.Get("/reports/warnings", s.warnings)

		// Chart of accounts reference
		r.Get("/chart", s.getChart)
	})

	return s
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

func (s *Server) ListenAndServe() error {
	s.log.Info("microbooks server listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("microbooks server listening", "addr", ln.Addr().String())
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
