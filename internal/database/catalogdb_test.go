package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/libscan/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CatalogDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// sampleResult builds a catalogue with a few records for storage tests.
func sampleResult(library string) *model.AnalysisResult {
	result := model.NewAnalysisResult(library)
	result.PackagesVisited = 3
	result.PackagesSkipped = 1

	result.AddFunction(model.FunctionRecord{
		Name:    "Mean",
		Args:    []string{"values"},
		Package: library,
	})
	result.AddClass(model.ClassRecord{
		Name:    "Counter",
		Package: library,
		Methods: []model.MethodRecord{
			{Name: "Add", Args: []string{"n"}},
		},
	})

	return result
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "libscan.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false fails on missing database", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(filepath.Join(t.TempDir(), "missing"), opts); err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if _, err := db.SaveAnalysis(context.Background(), sampleResult("example.com/persist")); err != nil {
			t.Fatalf("failed to save catalogue: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		reopened, err := Open(dbDir, opts)
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer reopened.Close()

		stored, err := reopened.GetLatestAnalysis(context.Background(), "example.com/persist")
		if err != nil {
			t.Fatalf("failed to read catalogue: %v", err)
		}
		if stored == nil {
			t.Fatal("expected stored catalogue to survive reopen")
		}
	})
}

// TestSaveAndLoadAnalysis tests catalogue round-trips through the database.
func TestSaveAndLoadAnalysis(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a catalogue", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		id, err := db.SaveAnalysis(ctx, sampleResult("example.com/numlib"))
		if err != nil {
			t.Fatalf("failed to save catalogue: %v", err)
		}
		if id <= 0 {
			t.Errorf("expected positive scan ID, got %d", id)
		}

		stored, err := db.GetLatestAnalysis(ctx, "example.com/numlib")
		if err != nil {
			t.Fatalf("failed to load catalogue: %v", err)
		}
		if stored == nil {
			t.Fatal("expected stored catalogue")
		}
		if stored.Library != "example.com/numlib" {
			t.Errorf("expected library to round-trip, got %q", stored.Library)
		}
		if len(stored.Functions) != 1 || stored.Functions[0].Name != "Mean" {
			t.Errorf("expected function record to round-trip, got %+v", stored.Functions)
		}
		if len(stored.Classes) != 1 || len(stored.Classes[0].Methods) != 1 {
			t.Errorf("expected class record to round-trip, got %+v", stored.Classes)
		}
	})

	t.Run("latest wins with multiple scans", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		first := sampleResult("example.com/numlib")
		if _, err := db.SaveAnalysis(ctx, first); err != nil {
			t.Fatalf("failed to save first scan: %v", err)
		}

		second := sampleResult("example.com/numlib")
		second.AddFunction(model.FunctionRecord{Name: "Median", Package: "example.com/numlib"})
		if _, err := db.SaveAnalysis(ctx, second); err != nil {
			t.Fatalf("failed to save second scan: %v", err)
		}

		stored, err := db.GetLatestAnalysis(ctx, "example.com/numlib")
		if err != nil {
			t.Fatalf("failed to load catalogue: %v", err)
		}
		if len(stored.Functions) != 2 {
			t.Errorf("expected latest scan with 2 functions, got %d", len(stored.Functions))
		}
	})

	t.Run("returns nil for unknown library", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		stored, err := db.GetLatestAnalysis(context.Background(), "example.com/unknown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored != nil {
			t.Error("expected nil for unknown library")
		}
	})

	t.Run("loads by ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		id, err := db.SaveAnalysis(ctx, sampleResult("example.com/numlib"))
		if err != nil {
			t.Fatalf("failed to save catalogue: %v", err)
		}

		stored, err := db.GetAnalysisByID(ctx, id)
		if err != nil {
			t.Fatalf("failed to load by ID: %v", err)
		}
		if stored == nil || stored.Library != "example.com/numlib" {
			t.Error("expected catalogue loaded by ID")
		}

		missing, err := db.GetAnalysisByID(ctx, id+1000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if missing != nil {
			t.Error("expected nil for unknown ID")
		}
	})
}

// TestScanHistory tests history and listing queries.
func TestScanHistory(t *testing.T) {
	t.Parallel()

	t.Run("lists scanned libraries sorted", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for _, lib := range []string{"example.com/zeta", "example.com/alpha", "example.com/alpha"} {
			if _, err := db.SaveAnalysis(ctx, sampleResult(lib)); err != nil {
				t.Fatalf("failed to save catalogue: %v", err)
			}
		}

		libraries, err := db.ListScannedLibraries(ctx)
		if err != nil {
			t.Fatalf("failed to list libraries: %v", err)
		}
		want := []string{"example.com/alpha", "example.com/zeta"}
		if len(libraries) != len(want) {
			t.Fatalf("expected %d libraries, got %d", len(want), len(libraries))
		}
		for i, lib := range want {
			if libraries[i] != lib {
				t.Errorf("expected library %q at index %d, got %q", lib, i, libraries[i])
			}
		}
	})

	t.Run("history metadata carries counts newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		first := sampleResult("example.com/numlib")
		firstID, err := db.SaveAnalysis(ctx, first)
		if err != nil {
			t.Fatalf("failed to save first scan: %v", err)
		}

		second := sampleResult("example.com/numlib")
		second.AddFunction(model.FunctionRecord{Name: "Median", Package: "example.com/numlib"})
		secondID, err := db.SaveAnalysis(ctx, second)
		if err != nil {
			t.Fatalf("failed to save second scan: %v", err)
		}

		history, err := db.GetScanHistory(ctx, "example.com/numlib")
		if err != nil {
			t.Fatalf("failed to get history: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 history entries, got %d", len(history))
		}
		if history[0].ID != secondID || history[1].ID != firstID {
			t.Errorf("expected newest-first ordering, got IDs %d, %d", history[0].ID, history[1].ID)
		}
		if history[0].FunctionCount != 2 {
			t.Errorf("expected 2 functions in newest entry, got %d", history[0].FunctionCount)
		}
		if history[1].ClassCount != 1 {
			t.Errorf("expected 1 class in oldest entry, got %d", history[1].ClassCount)
		}
	})

	t.Run("recent analyses honors limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for range 3 {
			if _, err := db.SaveAnalysis(ctx, sampleResult("example.com/numlib")); err != nil {
				t.Fatalf("failed to save catalogue: %v", err)
			}
		}

		limited, err := db.GetRecentAnalyses(ctx, "example.com/numlib", 2)
		if err != nil {
			t.Fatalf("failed to get recent analyses: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 catalogues, got %d", len(limited))
		}

		all, err := db.GetRecentAnalyses(ctx, "example.com/numlib", 0)
		if err != nil {
			t.Fatalf("failed to get all analyses: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 catalogues, got %d", len(all))
		}
	})
}
