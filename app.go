package knobs

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/knobs-dev/knobs/pkg/dom"
	"github.com/knobs-dev/knobs/pkg/live"
	"github.com/knobs-dev/knobs/pkg/upload"
)

// ClientJS is the embedded live client script, served at /client.js.
//
//go:embed static/client.js
var ClientJS []byte

// Stylesheet is the embedded default stylesheet, served at /knobs.css.
//
//go:embed static/knobs.css
var Stylesheet []byte

var (
	clientJSETag   = assetETag(ClientJS)
	stylesheetETag = assetETag(Stylesheet)
)

func assetETag(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:]))
}

// Config configures an App.
type Config struct {
	// Title is the page title of the served document. Defaults to
	// "knobs".
	Title string

	// Mount builds each session's document. Required.
	Mount live.Mount

	// UploadStore receives files posted to /upload. Leave nil to
	// disable the upload endpoint; file widgets then have nowhere to
	// send their content.
	UploadStore upload.Store

	// MaxUploadSize caps uploads in bytes. Zero uses the upload
	// package default.
	MaxUploadSize int64

	// Live tunes session timeouts and limits.
	Live live.Config

	// Logger receives server logs. Defaults to slog.Default with a
	// component attribute.
	Logger *slog.Logger

	// Dev enables request logging and disables asset caching.
	Dev bool

	// ShutdownTimeout bounds the graceful shutdown in Run. Defaults to
	// 10 seconds.
	ShutdownTimeout time.Duration
}

// App is the live preview server: the gallery page, its client assets,
// the WebSocket endpoint, uploads, and the operational routes, all
// behind one handler.
type App struct {
	config   Config
	logger   *slog.Logger
	registry *prometheus.Registry
	router   chi.Router
	shell    []byte

	httpServer *http.Server
}

// New builds an App from config. The Mount function is required;
// everything else has a default.
func New(config Config) (*App, error) {
	if config.Mount == nil {
		return nil, errors.New("knobs: config needs a Mount function")
	}
	if config.Title == "" {
		config.Title = "knobs"
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default().With("component", "app")
	}

	shell, err := renderShell(config.Title, config.Mount)
	if err != nil {
		return nil, fmt.Errorf("knobs: mount failed: %w", err)
	}

	a := &App{
		config:   config,
		logger:   config.Logger,
		registry: prometheus.NewRegistry(),
		shell:    shell,
	}
	live.RegisterMetrics(a.registry)

	liveCfg := config.Live
	if liveCfg.Logger == nil {
		liveCfg.Logger = config.Logger
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(a.traceRequests)
	if config.Dev {
		r.Use(chimw.Logger)
	}

	r.Get("/", a.handleIndex)
	r.Get("/client.js", a.serveAsset(ClientJS, "application/javascript; charset=utf-8", clientJSETag))
	r.Head("/client.js", a.serveAsset(ClientJS, "application/javascript; charset=utf-8", clientJSETag))
	r.Get("/knobs.css", a.serveAsset(Stylesheet, "text/css; charset=utf-8", stylesheetETag))
	r.Head("/knobs.css", a.serveAsset(Stylesheet, "text/css; charset=utf-8", stylesheetETag))
	r.Handle("/live", live.Handler(config.Mount, liveCfg))
	if config.UploadStore != nil {
		r.Method(http.MethodPost, "/upload", upload.Handler(config.UploadStore, config.MaxUploadSize))
	}
	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.router = r

	return a, nil
}

// ServeHTTP serves the app's routes.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Registry returns the app's metrics registry, for registering
// application metrics alongside the built-in ones.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// Run serves on addr until the process receives an interrupt or the
// listener fails. An interrupt triggers a graceful shutdown bounded by
// ShutdownTimeout.
func (a *App) Run(addr string) error {
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: a,

		// Whole-request read and write timeouts would cut long-lived
		// WebSocket connections and large uploads short.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "address", addr)
		errCh <- a.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-shutdown:
		a.logger.Info("shutting down")
		return a.Shutdown(context.Background())
	}
}

// Shutdown stops the HTTP server, waiting up to ShutdownTimeout for
// in-flight requests to finish.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.ShutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	a.logger.Info("server shutdown complete")
	return nil
}

// traceRequests wraps each request in a server span. Live sessions get
// their own per-event spans once the connection is upgraded; this
// covers the plain HTTP surface.
func (a *App) traceRequests(next http.Handler) http.Handler {
	tracer := otel.Tracer("knobs/app")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "http "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			))
		defer span.End()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", ww.Status()))
		if ww.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.Status()))
		} else {
			span.SetStatus(codes.Ok, "")
		}
	})
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(a.shell)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// serveAsset serves one embedded asset with ETag revalidation.
//
// Caching policy: dev serves no-store so edits show up immediately;
// otherwise clients revalidate via ETag, which picks updates up safely
// without a versioned URL.
func (a *App) serveAsset(content []byte, contentType, etag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if a.config.Dev {
			w.Header().Set("Cache-Control", "no-store")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
		}

		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write(content)
	}
}

// etagMatches handles If-None-Match lists: "abc", W/"def".
func etagMatches(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	for _, part := range strings.Split(header, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag {
			return true
		}
		if strings.HasPrefix(candidate, "W/") && strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// renderShell builds the HTML document that hosts a live session. The
// mount element carries a server-rendered snapshot of the document, so
// the page shows content before the socket connects; on hello the
// client clears the mount and rebuilds it from the session's own tree.
// The snapshot is rendered once here, not per request: mounts arm
// binding lifetimes whose watchers live as long as their document.
func renderShell(title string, mount live.Mount) ([]byte, error) {
	doc := dom.NewDocument()
	if err := mount(doc); err != nil {
		return nil, err
	}
	var content strings.Builder
	for _, child := range doc.Root().Children() {
		if err := dom.WriteHTML(&content, child); err != nil {
			return nil, err
		}
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"utf-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n", html.EscapeString(title))
	b.WriteString("  <link rel=\"stylesheet\" href=\"/knobs.css\">\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("  <div id=\"knobs-root\">" + content.String() + "</div>\n")
	b.WriteString("  <script src=\"/client.js\" defer></script>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return []byte(b.String()), nil
}
