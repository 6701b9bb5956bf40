package main

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/knobs-dev/knobs"
	"github.com/knobs-dev/knobs/internal/config"
	"github.com/knobs-dev/knobs/internal/errors"
	"github.com/knobs-dev/knobs/internal/gallery"
	"github.com/knobs-dev/knobs/pkg/dom"
)

func buildCmd() *cobra.Command {
	var (
		output string
		clean  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render a static snapshot of the gallery",
		Long: `Render the gallery into a static site.

This command:
  • Builds the gallery document and serializes it to HTML
  • Writes the stylesheet and the live client alongside it

The snapshot shows every widget in its initial state. It does not
open a live session; pair it with knobs serve for that.

Examples:
  knobs build
  knobs build --output=public
  knobs build --clean`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, clean)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from knobs.json)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean output directory before build")

	return cmd
}

func runBuild(output string, clean bool) error {
	// Load config
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if err := cfg.CheckVersion(version); err != nil {
		return err
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Build.OutDir = output
	}

	fmt.Println("  Building static gallery...")
	fmt.Println()

	start := time.Now()
	outDir := cfg.OutputPath()

	if clean {
		info("Cleaning %s/...", cfg.Build.OutDir)
		if err := os.RemoveAll(outDir); err != nil {
			return errors.New(errors.CategoryBuild, "cannot clean output directory").Wrap(err)
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.New(errors.CategoryBuild, "cannot create output directory").Wrap(err)
	}

	page, err := renderStaticPage(cfg.App.Name)
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{"index.html", page},
		{"knobs.css", knobs.Stylesheet},
		{"client.js", knobs.ClientJS},
	}

	var total int64
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(outDir, f.name), f.data, 0644); err != nil {
			return errors.Newf(errors.CategoryBuild, "cannot write %s", f.name).Wrap(err)
		}
		info("%-10s  %s", f.name, formatBytes(int64(len(f.data))))
		total += int64(len(f.data))
	}

	fmt.Println()
	success("Build complete in %s", time.Since(start).Round(time.Millisecond))
	info("%s in %s/", formatBytes(total), cfg.Build.OutDir)
	fmt.Println()

	return nil
}

// renderStaticPage builds the gallery document and wraps its HTML in a
// page shell. Asset links are relative so the snapshot works from any
// path, and no client script loads: there is no live endpoint to join.
func renderStaticPage(title string) ([]byte, error) {
	doc := dom.NewDocument()
	if err := gallery.Build(doc); err != nil {
		return nil, errors.New(errors.CategoryBuild, "cannot build gallery document").Wrap(err)
	}

	var content strings.Builder
	for _, child := range doc.Root().Children() {
		if err := dom.WriteHTML(&content, child); err != nil {
			return nil, errors.New(errors.CategoryBuild, "cannot serialize gallery").Wrap(err)
		}
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"utf-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("  <title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("  <link rel=\"stylesheet\" href=\"knobs.css\">\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("  <div id=\"knobs-root\">" + content.String() + "</div>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return []byte(b.String()), nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
