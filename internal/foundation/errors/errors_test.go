package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryValidation, "found invalid path").
			WithSeverity(SeverityFatal).
			WithContext("pattern", "./missing/*").
			Build()

		if err.Category() != CategoryValidation {
			t.Errorf("expected category %s, got %s", CategoryValidation, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "found invalid path" {
			t.Errorf("expected message 'found invalid path', got %s", err.Message())
		}

		pattern, exists := err.Context().GetString("pattern")
		if !exists || pattern != "./missing/*" {
			t.Errorf("expected context pattern=./missing/*, got %v", pattern)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("stage merge_src: %w", FileSystemError(errors.New("disk full"), "copy failed").Build())

		if !IsClassified(err) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(err, CategoryFileSystem) {
			t.Error("expected error to have filesystem category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified error to default to internal")
		}
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := ValidationError("unknown board").Build()
		derived := base.WithContext("board", "nope")

		if _, ok := base.Context().Get("board"); ok {
			t.Error("original error context was mutated")
		}
		if v, _ := derived.Context().GetString("board"); v != "nope" {
			t.Errorf("expected derived board=nope, got %q", v)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	cause := errors.New("exit status 1")
	err := BuildError(cause, "build runner failed").
		WithContext("stage", "build").
		Build()

	if !err.IsFatal() {
		t.Error("expected build error to be fatal")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Error() != "[build:fatal] build runner failed: exit status 1" {
		t.Errorf("unexpected error string: %s", err.Error())
	}

	warn := NewError(CategoryRuntime, "slow").Warning().Build()
	if warn.Severity() != SeverityWarning {
		t.Errorf("expected warning severity, got %s", warn.Severity())
	}
}

func TestErrorContextMerge(t *testing.T) {
	var empty ErrorContext
	other := ErrorContext{"a": 1}
	if got := empty.Merge(other); got["a"] != 1 {
		t.Errorf("merge into nil context lost values: %v", got)
	}

	base := ErrorContext{"a": 1, "b": 2}
	merged := base.Merge(ErrorContext{"b": 3})
	if merged["a"] != 1 || merged["b"] != 3 {
		t.Errorf("unexpected merge result: %v", merged)
	}
	if base["b"] != 2 {
		t.Error("merge mutated receiver")
	}
}
