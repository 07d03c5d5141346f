package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/janpfeifer/GoMemory/internal/config"
	"github.com/janpfeifer/GoMemory/internal/frontend"
	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// RegisterRoutes registers the go-app routes, so the server knows how to
// prerender them. The WASM side registers the same ones.
func RegisterRoutes() {
	// Initialize global state for server-side prerendering without panic.
	frontend.InitState()
	app.Route("/", func() app.Composer { return &frontend.Memory{} })
}

// NewAppHandler returns the go-app handler serving the game pages and the
// compiled WASM.
func NewAppHandler() *app.Handler {
	return &app.Handler{
		Name:        "GoMemory",
		ShortName:   "GoMemory",
		Description: "A memory card matching game",
		Version:     game.Version,
		Styles: []string{
			"/web/css/main.css", // Board, card flips, toasts and confetti
		},
	}
}

// NewRouter returns the HTTP handler of the server: static assets under
// /web/ and the go-app handler for everything else.
func NewRouter(webDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/web/*", http.StripPrefix("/web/", http.FileServer(http.Dir(webDir))))
	r.Handle("/*", NewAppHandler())
	return r
}

// requestLogger logs every request at verbosity 1.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		klog.V(1).Infof("%s %s: %d, %d bytes in %s", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

// Run starts the server and blocks until the context is canceled.
// The address the server listens to is sent to started, if not nil.
func Run(ctx context.Context, cfg config.Server, started chan<- string) error {
	RegisterRoutes()

	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %q: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           NewRouter(cfg.WebDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		klog.Infof("Server started on %s", listener.Addr())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	if started != nil {
		started <- listener.Addr().String()
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	klog.Infof("Shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// GenerateStatic writes a static website with the game to dir, to be served
// by any static file host. The web assets are not copied.
func GenerateStatic(dir string) error {
	RegisterRoutes()
	if err := app.GenerateStaticWebsite(dir, NewAppHandler()); err != nil {
		return fmt.Errorf("failed to generate static website in %q: %w", dir, err)
	}
	klog.Infof("Static website generated in %s", dir)
	return nil
}
