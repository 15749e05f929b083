// Package dashboard serves a minimal web page and an SSE stream of
// executed swaps.
package dashboard

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/bitinch/bitinch/internal/domain"
)

const streamPollInterval = 3 * time.Second

type swapReader interface {
	RecordsAfter(index uint64) ([]domain.SwapRecordEntry, error)
}

// Server exposes the swap history page and its SSE stream.
type Server struct {
	Addr  string
	Store swapReader
}

// NewServer creates a dashboard server over the given swap store.
func NewServer(addr string, store swapReader) *Server {
	return &Server{Addr: addr, Store: store}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/swaps/stream", s.handleSwapStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
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

// StartWithAutoTLS runs an HTTPS server with automatic certificates via
// ACME, plus an HTTP server on port 80 for HTTP-01 challenges.
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
		_ = httpSrv.Shutdown(shutdownCtx)
		_ = httpsSrv.Shutdown(shutdownCtx)
	}()

	go func() {
		_ = httpSrv.ListenAndServe()
	}()

	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func (s *Server) handleSwapStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "swap store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	heartbeat := time.NewTicker(20 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(streamPollInterval)
	defer pollTicker.Stop()

	lastIndex := parseLastEventID(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("last_event_id"))
	sendSwaps := func() error {
		entries, err := s.Store.RecordsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			payload, err := json.Marshal(entry.Record)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\n", entry.Index)
			fmt.Fprintf(w, "event: swap\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = entry.Index
		}
		return nil
	}

	if err := sendSwaps(); err != nil {
		http.Error(w, "failed to load swap history", http.StatusInternalServerError)
		return
	}

	if lastIndex == 0 {
		fmt.Fprintf(w, "event: no_data\n")
		fmt.Fprintf(w, "data: {}\n\n")
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendSwaps(); err != nil {
				return
			}
		}
	}
}

func parseLastEventID(header, query string) uint64 {
	for _, raw := range []string{header, query} {
		if raw == "" {
			continue
		}
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return id
		}
	}
	return 0
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>bitinch swaps</title>
<style>
body { font-family: monospace; background: #101014; color: #d8d8e0; margin: 2rem; }
h1 { color: #7d56f4; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #2a2a33; }
#status { color: #888; }
</style>
</head>
<body>
<h1>bitinch swap history</h1>
<p id="status">connecting…</p>
<table>
<thead><tr><th>time</th><th>pair</th><th>in</th><th>out</th><th>rate</th></tr></thead>
<tbody id="swaps"></tbody>
</table>
<script>
const status = document.getElementById('status');
const tbody = document.getElementById('swaps');
const src = new EventSource('/swaps/stream');
src.addEventListener('swap', (e) => {
  status.textContent = 'live';
  const s = JSON.parse(e.data);
  const row = document.createElement('tr');
  row.innerHTML = '<td>' + new Date(s.ts).toLocaleString() + '</td><td>' + s.pair +
    '</td><td>' + s.input_amount + '</td><td>' + s.output_amount + '</td><td>' + s.rate + '</td>';
  tbody.prepend(row);
});
src.addEventListener('no_data', () => { status.textContent = 'no swaps yet'; });
src.onerror = () => { status.textContent = 'disconnected, retrying…'; };
</script>
</body>
</html>
`
