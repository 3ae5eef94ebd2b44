package walker

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeTree creates a directory tree with the given files.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

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

func TestWalkerWalk(t *testing.T) {
	t.Parallel()

	t.Run("finds sub-packages in lexical order", func(t *testing.T) {
		t.Parallel()

		dir := writeTree(t, map[string]string{
			"root.go":               "package lib\n",
			"stats/stats.go":        "package stats\n",
			"stats/moments/m.go":    "package moments\n",
			"ast/ast.go":            "package ast\n",
			"docs/readme.txt":       "not a package\n",
			"testonly/only_test.go": "package testonly\n",
		})

		w := New()
		got := w.Walk(dir, "example.com/lib")

		want := []string{
			"example.com/lib/ast",
			"example.com/lib/stats",
			"example.com/lib/stats/moments",
		}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("prunes ignored directories", func(t *testing.T) {
		t.Parallel()

		dir := writeTree(t, map[string]string{
			"root.go":             "package lib\n",
			"vendor/dep/dep.go":   "package dep\n",
			"_tools/gen.go":       "package tools\n",
			".hidden/h.go":        "package hidden\n",
			"ok/ok.go":            "package ok\n",
			"ok/vendor/v/v.go":    "package v\n",
		})

		w := New()
		got := w.Walk(dir, "example.com/lib")

		if len(got) != 1 || got[0] != "example.com/lib/ok" {
			t.Errorf("expected only example.com/lib/ok, got %v", got)
		}
	})

	t.Run("root package is excluded", func(t *testing.T) {
		t.Parallel()

		dir := writeTree(t, map[string]string{
			"root.go": "package lib\n",
		})

		w := New()
		if got := w.Walk(dir, "example.com/lib"); len(got) != 0 {
			t.Errorf("expected no sub-packages, got %v", got)
		}
	})

	t.Run("enumeration fault is absorbed and logged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))

		w := New(WithLogger(logger))
		missing := filepath.Join(t.TempDir(), "does-not-exist")
		got := w.Walk(missing, "example.com/lib")

		if len(got) != 0 {
			t.Errorf("expected no sub-packages for missing root, got %v", got)
		}
		if !strings.Contains(buf.String(), "enumeration fault") {
			t.Errorf("expected enumeration fault notice, got log: %s", buf.String())
		}
	})

	t.Run("unreadable directory costs only its own subtree", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not enforced on Windows")
		}
		if os.Geteuid() == 0 {
			t.Skip("root bypasses permission checks")
		}

		dir := writeTree(t, map[string]string{
			"root.go":        "package lib\n",
			"locked/l.go":    "package locked\n",
			"readable/ok.go": "package readable\n",
		})
		if err := os.Chmod(filepath.Join(dir, "locked"), 0000); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			_ = os.Chmod(filepath.Join(dir, "locked"), 0750)
		})

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))

		w := New(WithLogger(logger))
		got := w.Walk(dir, "example.com/lib")

		if len(got) != 1 || got[0] != "example.com/lib/readable" {
			t.Errorf("expected only example.com/lib/readable, got %v", got)
		}
		if !strings.Contains(buf.String(), "enumeration fault") {
			t.Errorf("expected enumeration fault notice, got log: %s", buf.String())
		}
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		t.Parallel()

		dir := writeTree(t, map[string]string{
			"root.go":     "package lib\n",
			"b/b.go":      "package b\n",
			"a/a.go":      "package a\n",
			"c/c.go":      "package c\n",
		})

		w := New()
		first := w.Walk(dir, "example.com/lib")
		second := w.Walk(dir, "example.com/lib")

		if len(first) != len(second) {
			t.Fatalf("walks differ in length: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("walks differ at %d: %s vs %s", i, first[i], second[i])
			}
		}
	})
}

func TestHasSkipSuffix(t *testing.T) {
	t.Parallel()

	suffixes := []string{"/testdata", "/f2py"}

	tests := []struct {
		pkgPath string
		want    bool
	}{
		{"example.com/lib/testdata", true},
		{"example.com/lib/compat/f2py", true},
		{"example.com/lib/stats", false},
		{"example.com/lib/f2pyish", false},
	}

	for _, tt := range tests {
		t.Run(tt.pkgPath, func(t *testing.T) {
			t.Parallel()

			if got := HasSkipSuffix(tt.pkgPath, suffixes); got != tt.want {
				t.Errorf("HasSkipSuffix(%s) = %v, want %v", tt.pkgPath, got, tt.want)
			}
		})
	}

	t.Run("empty suffix never matches", func(t *testing.T) {
		t.Parallel()

		if HasSkipSuffix("example.com/lib", []string{""}) {
			t.Error("empty suffix must not match")
		}
	})
}
