// Package web serves the dashboard UI: a static index page plus SSE streams
// for the staking summary and the transaction log.
package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stakeboard/internal/core"
	"github.com/vadiminshakov/stakeboard/internal/domain"
	"github.com/vadiminshakov/stakeboard/internal/services/pricer"
	"github.com/vadiminshakov/stakeboard/pkg/retrier"
	"golang.org/x/crypto/acme/autocert"
)

const (
	summaryPollInterval = 3 * time.Second
	priceRefreshEvery   = time.Minute
)

type summaryProvider interface {
	Summary() core.Summary
	TransactionsAfter(seq uint64) []domain.TransactionRecord
}

// Server exposes HTTP endpoints serving the HTML UI and SSE streams.
type Server struct {
	Addr    string
	Core    summaryProvider
	Pricer  pricer.Pricer
	Catalog domain.Catalog

	retry    *retrier.Retrier
	priceMu  sync.Mutex
	pricesAt time.Time
	prices   map[string]decimal.Decimal
}

// NewServer creates a new dashboard server instance.
func NewServer(addr string, c summaryProvider, p pricer.Pricer, catalog domain.Catalog) *Server {
	return &Server{
		Addr:    addr,
		Core:    c,
		Pricer:  p,
		Catalog: catalog,
		retry:   retrier.New(retrier.WithMaxRetries(2), retrier.WithInitialInterval(200*time.Millisecond)),
		prices:  make(map[string]decimal.Decimal),
	}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/summary/stream", s.handleSummaryStream)
	mux.HandleFunc("/transactions/stream", s.handleTransactionStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via
// ACME, plus an HTTP server on port 80 for the HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http (acme) server shutdown error: %v", err)
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("https server shutdown error: %v", err)
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http (acme) server error: %v", err)
		}
	}()

	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

// summaryPayload is the wire shape of one summary event: the core's
// aggregates plus spot USD valuations of the staked tokens.
type summaryPayload struct {
	core.Summary
	Prices map[string]decimal.Decimal `json:"prices,omitempty"`
}

func (s *Server) handleSummaryStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(summaryPollInterval)
	defer pollTicker.Stop()

	sendSummary := func() error {
		payload, err := json.Marshal(summaryPayload{
			Summary: s.Core.Summary(),
			Prices:  s.tokenPrices(r.Context()),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "event: summary\n")
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return nil
	}

	if err := sendSummary(); err != nil {
		http.Error(w, "failed to build summary", http.StatusInternalServerError)
		log.Printf("summary stream initial send: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendSummary(); err != nil {
				log.Printf("summary stream poll err: %v", err)
			}
		}
	}
}

func (s *Server) handleTransactionStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(summaryPollInterval)
	defer pollTicker.Stop()

	lastSeq := uint64(0)
	sendTransactions := func() error {
		for _, record := range s.Core.TransactionsAfter(lastSeq) {
			payload, err := json.Marshal(record)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: transaction\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastSeq = record.Seq
		}
		return nil
	}

	if err := sendTransactions(); err != nil {
		http.Error(w, "failed to load transactions", http.StatusInternalServerError)
		log.Printf("transaction stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendTransactions(); err != nil {
				log.Printf("transaction stream poll err: %v", err)
			}
		}
	}
}

// tokenPrices returns cached spot prices, refreshing them at most once per
// priceRefreshEvery. Price failures leave the stale cache in place; the
// dashboard keeps working without valuations.
func (s *Server) tokenPrices(ctx context.Context) map[string]decimal.Decimal {
	if s.Pricer == nil {
		return nil
	}

	s.priceMu.Lock()
	defer s.priceMu.Unlock()

	if time.Since(s.pricesAt) < priceRefreshEvery && len(s.prices) > 0 {
		return s.prices
	}

	fresh := make(map[string]decimal.Decimal, len(s.Catalog))
	for _, token := range s.Catalog {
		symbol := token.Symbol
		price, err := retrier.DoWithData(s.retry, ctx, func(ctx context.Context) (decimal.Decimal, error) {
			return s.Pricer.GetPrice(ctx, symbol)
		})
		if err != nil {
			log.Printf("price lookup failed for %s: %v", symbol, err)
			continue
		}
		fresh[symbol] = price
	}
	if len(fresh) > 0 {
		s.prices = fresh
		s.pricesAt = time.Now()
	}
	return s.prices
}
