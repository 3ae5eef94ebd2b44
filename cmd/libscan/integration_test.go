package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/libscan/internal/config"
	"github.com/nao1215/libscan/internal/database"
)

// writeTestModule creates a throwaway module on disk for end-to-end tests.
func writeTestModule(t *testing.T) string {
	t.Helper()

	files := map[string]string{
		"go.mod": "module example.com/numlib\n\ngo 1.25\n",
		"numlib.go": `package numlib

// Mean computes the arithmetic mean.
func Mean(values []float64) float64 { return 0 }

// Counter accumulates observations.
type Counter struct{ n int }

// Add records one observation.
func (c *Counter) Add(v float64) {}
`,
		"stats/stats.go": `package stats

// Median computes the middle value.
func Median(values []float64) float64 { return 0 }
`,
	}

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestScanEndToEnd runs a full scan of a real module through the scan flow,
// including report and database persistence.
func TestScanEndToEnd(t *testing.T) {
	moduleDir := writeTestModule(t)
	dbDir := t.TempDir()
	reportFile := filepath.Join(t.TempDir(), "catalogue.txt")

	cfg := config.NewConfig()
	cfg.Targets = []string{"."}
	cfg.Dir = moduleDir
	cfg.ReportFile = reportFile
	cfg.SaveToDB = true
	cfg.DBDir = dbDir
	cfg.LibraryConfigs = &config.File{Libraries: make(map[string]config.LibraryConfig)}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	var buf bytes.Buffer
	cmd := NewScanCmd()
	cmd.SetOut(&buf)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := runScan(context.Background(), cmd, cfg, logger); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	t.Run("progress output", func(t *testing.T) {
		output := buf.String()
		if !strings.Contains(output, "Scanning") {
			t.Error("expected scan progress output")
		}
		if !strings.Contains(output, "Scan completed") {
			t.Error("expected scan completion output")
		}
	})

	t.Run("report file", func(t *testing.T) {
		data, err := os.ReadFile(reportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		report := string(data)
		if !strings.Contains(report, "example.com/numlib") {
			t.Error("expected library path in report")
		}
		if !strings.Contains(report, "Mean(") {
			t.Error("expected root function in report")
		}
		if !strings.Contains(report, "Median(") {
			t.Error("expected sub-package function in report")
		}
		if !strings.Contains(report, "Counter") {
			t.Error("expected class entry in report")
		}
	})

	t.Run("database record", func(t *testing.T) {
		db, err := database.Open(dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		stored, err := db.GetLatestAnalysis(context.Background(), "example.com/numlib")
		if err != nil {
			t.Fatalf("failed to load catalogue: %v", err)
		}
		if stored == nil {
			t.Fatal("expected stored catalogue")
		}
		if len(stored.Functions) != 2 {
			t.Errorf("expected 2 functions in stored catalogue, got %d", len(stored.Functions))
		}
		if len(stored.Classes) != 1 {
			t.Errorf("expected 1 class in stored catalogue, got %d", len(stored.Classes))
		}
	})
}

// TestScanEndToEndAllowList runs an allow-list scan through the scan flow.
func TestScanEndToEndAllowList(t *testing.T) {
	moduleDir := writeTestModule(t)
	reportFile := filepath.Join(t.TempDir(), "catalogue.txt")

	cfg := config.NewConfig()
	cfg.Targets = []string{"."}
	cfg.Dir = moduleDir
	cfg.Only = []string{"Mean"}
	cfg.ReportFile = reportFile
	cfg.SaveToDB = false
	cfg.LibraryConfigs = &config.File{Libraries: make(map[string]config.LibraryConfig)}

	var buf bytes.Buffer
	cmd := NewScanCmd()
	cmd.SetOut(&buf)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := runScan(context.Background(), cmd, cfg, logger); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	data, err := os.ReadFile(reportFile)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}

	report := string(data)
	if !strings.Contains(report, "Mean(") {
		t.Error("expected allow-listed function in report")
	}
	if strings.Contains(report, "Median(") {
		t.Error("expected sub-package traversal to be skipped in allow-list mode")
	}
}
