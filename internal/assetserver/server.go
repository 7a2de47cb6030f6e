// Package assetserver serves a packaged web application, the caller's input
// document and the export options to a headless browser, and receives the
// rendered result back over HTTP.
package assetserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-diag2svg/internal/archive"
	"github.com/alnah/go-diag2svg/internal/oneshot"
)

// Route paths.
const (
	IndexPath   = "/index.html"
	ExportPath  = "/export_opts"
	ReturnPath  = "/return"
	indexEntry  = "index.html"
	octetStream = "application/octet-stream"
)

// DefaultMaxResultSize bounds the body accepted on ReturnPath.
const DefaultMaxResultSize = 64 << 20

// notFoundBody is sent with every 404.
const notFoundBody = "File was not found"

// readHeaderTimeout guards against clients that never finish their headers.
const readHeaderTimeout = 10 * time.Second

// Config holds everything a Server needs for one render transaction.
type Config struct {
	Input         []byte                 // raw document bytes, served verbatim
	InputName     string                 // virtual file name for Input, e.g. "input.excalidraw"
	Export        ExportOptions          // served as JSON on ExportPath
	App           *archive.Archive       // application bundle
	Result        *oneshot.Value[[]byte] // receives the body posted to ReturnPath
	Logger        *slog.Logger           // nil means slog.Default()
	MaxResultSize int64                  // 0 means DefaultMaxResultSize
}

// Server is a per-transaction HTTP server.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a Server. App and Result must be non-nil.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxResultSize <= 0 {
		cfg.MaxResultSize = DefaultMaxResultSize
	}

	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get(ExportPath, s.handleExportOptions)
	r.Post(ReturnPath, s.handleReturn)
	r.Get("/*", s.handleAsset)
	s.router = r

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on ln until ctx is canceled.
// In-flight requests are abandoned on cancellation. The result value is
// abandoned when Serve returns so that a waiting consumer never blocks on a
// server that is gone.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.cfg.Result.Abandon()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	stop := context.AfterFunc(ctx, func() {
		_ = srv.Close()
	})
	defer stop()

	s.cfg.Logger.Debug("asset server listening", "addr", ln.Addr().String())

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, indexEntry)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, chi.URLParam(r, "*"))
}

// serveFile writes the caller's input when name is the virtual input name,
// or the matching bundle entry otherwise.
func (s *Server) serveFile(w http.ResponseWriter, name string) {
	log := s.cfg.Logger

	var body []byte
	if name == s.cfg.InputName {
		body = s.cfg.Input
	} else {
		data, err := s.cfg.App.Lookup(name)
		switch {
		case errors.Is(err, archive.ErrNotFound):
			log.Warn("asset not found", "path", name, "archive", s.cfg.App.Name())
			http.Error(w, notFoundBody, http.StatusNotFound)
			return
		case err != nil:
			log.Error("asset lookup failed", "path", name, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		body = data
	}

	log.Debug("serving file", "path", name, "size", len(body))

	w.Header().Set("Content-Type", contentType(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleExportOptions(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(s.cfg.Export)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.cfg.Logger.Debug("serving export options", "options", string(data))

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	log := s.cfg.Logger

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxResultSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Error("rendered result too large", "limit", tooLarge.Limit)
			http.Error(w, fmt.Sprintf("result exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		log.Error("reading rendered result", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.cfg.Result.Deliver(body) {
		log.Warn("dropping duplicate result", "size", len(body))
		http.Error(w, "result already delivered", http.StatusConflict)
		return
	}

	log.Debug("received rendered result", "size", len(body))
	w.WriteHeader(http.StatusOK)
}

// contentType infers a MIME type from the file extension.
func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return octetStream
}
