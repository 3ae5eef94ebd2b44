package model

import (
	"encoding/json"
	"testing"
)

func TestAnalysisResultAddFunction(t *testing.T) {
	t.Parallel()

	t.Run("keeps first record for duplicate names", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisResult("example.com/lib")

		first := FunctionRecord{Name: "Sum", Args: []string{"a", "b"}, Package: "example.com/lib"}
		second := FunctionRecord{Name: "Sum", Args: []string{"x"}, Package: "example.com/lib/internal/math"}

		if !r.AddFunction(first) {
			t.Fatal("expected first record to be kept")
		}
		if r.AddFunction(second) {
			t.Error("expected duplicate name to be discarded")
		}

		if len(r.Functions) != 1 {
			t.Fatalf("expected 1 function, got %d", len(r.Functions))
		}
		if got := r.Functions[0].Package; got != "example.com/lib" {
			t.Errorf("expected first-seen record to win, got package %s", got)
		}
	})

	t.Run("preserves discovery order", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisResult("example.com/lib")
		for _, name := range []string{"C", "A", "B"} {
			r.AddFunction(FunctionRecord{Name: name})
		}

		got := r.FunctionNames()
		want := []string{"C", "A", "B"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})
}

func TestAnalysisResultAddClass(t *testing.T) {
	t.Parallel()

	t.Run("same name in different packages does not collide", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisResult("example.com/lib")

		if !r.AddClass(ClassRecord{Name: "Buffer", Package: "example.com/lib/io"}) {
			t.Fatal("expected first class to be kept")
		}
		if !r.AddClass(ClassRecord{Name: "Buffer", Package: "example.com/lib/net"}) {
			t.Error("expected same-named class in another package to be kept")
		}

		if len(r.Classes) != 2 {
			t.Fatalf("expected 2 classes, got %d", len(r.Classes))
		}
	})

	t.Run("discards duplicate keys", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisResult("example.com/lib")
		rec := ClassRecord{Name: "Buffer", Package: "example.com/lib/io", Doc: "first"}

		r.AddClass(rec)
		if r.AddClass(ClassRecord{Name: "Buffer", Package: "example.com/lib/io", Doc: "second"}) {
			t.Error("expected duplicate key to be discarded")
		}
		if got := r.Classes[0].Doc; got != "first" {
			t.Errorf("expected first-seen record to win, got doc %q", got)
		}
	})
}

func TestAnalysisResultAddAfterUnmarshal(t *testing.T) {
	t.Parallel()

	original := NewAnalysisResult("example.com/lib")
	original.AddFunction(FunctionRecord{Name: "Sum", Package: "example.com/lib"})
	original.AddClass(ClassRecord{Name: "Buffer", Package: "example.com/lib"})

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	// Decoding fills the record slices but not the unexported dedup
	// indexes; the Add methods must rebuild them on first use.
	var decoded AnalysisResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.AddFunction(FunctionRecord{Name: "Sum", Package: "example.com/lib/other"}) {
		t.Error("expected duplicate function name to be discarded after decode")
	}
	if decoded.AddClass(ClassRecord{Name: "Buffer", Package: "example.com/lib"}) {
		t.Error("expected duplicate class key to be discarded after decode")
	}
	if !decoded.AddFunction(FunctionRecord{Name: "Mean", Package: "example.com/lib"}) {
		t.Error("expected new function name to be kept after decode")
	}

	if len(decoded.Functions) != 2 {
		t.Errorf("expected 2 functions, got %v", decoded.FunctionNames())
	}
	if len(decoded.Classes) != 1 {
		t.Errorf("expected 1 class, got %v", decoded.ClassKeys())
	}
}

func TestClassRecordKey(t *testing.T) {
	t.Parallel()

	rec := ClassRecord{Name: "Parser", Package: "example.com/lib/syntax"}
	if got := rec.Key(); got != "example.com/lib/syntax.Parser" {
		t.Errorf("unexpected key: %s", got)
	}
}

func TestNewSummary(t *testing.T) {
	t.Parallel()

	r := NewAnalysisResult("example.com/lib")
	r.AddFunction(FunctionRecord{Name: "Parse", Args: []string{"input"}})
	r.AddFunction(FunctionRecord{Name: "Opaque"}) // no signature data
	r.AddClass(ClassRecord{
		Name:    "Decoder",
		Package: "example.com/lib",
		Methods: []MethodRecord{{Name: "Decode"}, {Name: "Close"}},
	})
	r.PackagesVisited = 3
	r.PackagesSkipped = 1

	s := NewSummary(r)

	if s.FunctionCount != 2 {
		t.Errorf("expected 2 functions, got %d", s.FunctionCount)
	}
	if s.ClassCount != 1 {
		t.Errorf("expected 1 class, got %d", s.ClassCount)
	}
	if s.MethodCount != 2 {
		t.Errorf("expected 2 methods, got %d", s.MethodCount)
	}
	if s.DegradedCount != 1 {
		t.Errorf("expected 1 degraded function, got %d", s.DegradedCount)
	}
	if s.PackagesVisited != 3 || s.PackagesSkipped != 1 {
		t.Errorf("unexpected package counters: visited=%d skipped=%d",
			s.PackagesVisited, s.PackagesSkipped)
	}
}

func TestKindLabel(t *testing.T) {
	t.Parallel()

	if got := KindLabel(KindFunction); got != "Function" {
		t.Errorf("expected Function, got %s", got)
	}
	if got := KindLabel(KindClass); got != "Class" {
		t.Errorf("expected Class, got %s", got)
	}
}
