package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/knobs-dev/knobs"
	"github.com/knobs-dev/knobs/internal/config"
	"github.com/knobs-dev/knobs/internal/errors"
	"github.com/knobs-dev/knobs/internal/gallery"
	"github.com/knobs-dev/knobs/internal/telemetry"
	"github.com/knobs-dev/knobs/pkg/upload"
)

func serveCmd() *cobra.Command {
	var (
		addr          string
		dev           bool
		traceEndpoint string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live preview server",
		Long: `Start the preview server with the widget gallery.

The server renders the gallery page, streams element-tree patches
to the browser over a WebSocket, and feeds input events back into
the widgets.

Endpoints:
  • /        - gallery page
  • /live    - WebSocket session endpoint
  • /upload  - file upload target
  • /metrics - Prometheus metrics
  • /healthz - liveness probe

Examples:
  knobs serve
  knobs serve --addr=:3000
  knobs serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, dev, traceEndpoint)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from knobs.json)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Development mode: debug logging, no asset caching")
	cmd.Flags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP HTTP endpoint for trace export")

	return cmd
}

func runServe(addr string, dev bool, traceEndpoint string) error {
	// Load config
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if err := cfg.CheckVersion(version); err != nil {
		return err
	}

	// Apply command-line overrides
	if addr != "" {
		cfg.App.Addr = addr
	}
	if dev {
		cfg.Serve.Dev = true
	}
	if traceEndpoint != "" {
		cfg.Serve.TraceEndpoint = traceEndpoint
	}

	// Print banner
	printBanner()
	fmt.Println("  serve")
	fmt.Println()

	// The CLI talks on stdout; logs go to stderr.
	level := slog.LevelInfo
	if cfg.Serve.Dev {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	provider, err := telemetry.Setup(context.Background(), cfg.Serve.TraceEndpoint, cfg.Serve.ServiceName)
	if err != nil {
		warn("Tracing disabled: %v", err)
	} else if provider != nil {
		info("Tracing spans as %q", cfg.Serve.ServiceName)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			provider.Shutdown(ctx)
		}()
	}

	store, storeDesc, err := newStore(cfg)
	if err != nil {
		return err
	}

	app, err := knobs.New(knobs.Config{
		Title:         cfg.App.Name,
		Mount:         gallery.Build,
		UploadStore:   store,
		MaxUploadSize: cfg.MaxUploadBytes(),
		Dev:           cfg.Serve.Dev,
	})
	if err != nil {
		return err
	}

	url := displayURL(cfg.App.Addr)
	success("Serving %s", cfg.App.Name)
	info("Gallery:  %s/", url)
	info("Metrics:  %s/metrics", url)
	info("Uploads:  %s", storeDesc)
	fmt.Println()

	return app.Run(cfg.App.Addr)
}

// newStore builds the upload store the config asks for: S3 when a bucket
// is set, the local upload directory otherwise. The second return is a
// human-readable description of where uploads land.
func newStore(cfg *config.Config) (upload.Store, string, error) {
	if cfg.HasS3() {
		s3cfg := cfg.Upload.S3
		client, err := newS3Client(s3cfg)
		if err != nil {
			return nil, "", err
		}
		desc := fmt.Sprintf("s3://%s/%s", s3cfg.Bucket, s3cfg.Prefix)
		return upload.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix, cfg.MaxUploadBytes()), desc, nil
	}

	store, err := upload.NewDiskStore(cfg.UploadPath(), cfg.MaxUploadBytes())
	if err != nil {
		return nil, "", errors.New(errors.CategoryServe, "cannot open upload directory").Wrap(err)
	}
	return store, cfg.UploadPath(), nil
}

// newS3Client builds a client that signs requests with static credentials
// from the environment. Custom endpoints get path-style addressing, which
// is what MinIO and friends expect.
func newS3Client(s3cfg config.S3Config) (*s3.Client, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey == "" || secretKey == "" {
		return nil, errors.New(errors.CategoryConfig, "missing S3 credentials").
			WithDetail("S3 requests are signed with static credentials read from the environment.").
			WithHint("Set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}
	return upload.NewS3Client(s3cfg.Region, s3cfg.Endpoint, accessKey, secretKey, s3cfg.Endpoint != ""), nil
}

// displayURL turns a listen address into something clickable.
func displayURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
