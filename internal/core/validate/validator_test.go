package validate

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

// =============================================================================
// Stubs
// =============================================================================

type stubSnapshot struct {
	values map[string]string
	min    int
	max    int
}

func (s stubSnapshot) Lookup(key string) string { return s.values[key] }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testRules = []Rule{
	{
		Key:          "API_KEY",
		Required:     true,
		Validator:    HasPrefix("sk-"),
		Description:  "API key for the AI backend",
		ErrorMessage: `API_KEY must start with "sk-"`,
	},
	{
		Key:          "CACHE_URL",
		Validator:    HasPrefix("redis://"),
		Description:  "Redis URL for caching",
		ErrorMessage: `CACHE_URL must start with "redis://"`,
	},
	{
		Key:          "SENTRY_DSN",
		Validator:    HasPrefix("https://"),
		Description:  "Sentry DSN for error tracking",
		ErrorMessage: "SENTRY_DSN must be a valid HTTPS URL",
	},
}

var testChecks = []Check[stubSnapshot]{
	{
		Message: "MIN must be less than MAX",
		OK:      func(s stubSnapshot) bool { return s.min < s.max },
	},
}

// =============================================================================
// Tests
// =============================================================================

func TestValidate_MissingRequired(t *testing.T) {
	v := New(testRules, testChecks, quietLogger())
	snap := stubSnapshot{
		values: map[string]string{"CACHE_URL": "redis://x", "SENTRY_DSN": "https://dsn"},
		min:    100,
		max:    500,
	}

	result := v.Validate(snap)

	if result.Success {
		t.Error("expected failure")
	}
	want := []string{"API_KEY: API key for the AI backend"}
	if !reflect.DeepEqual(result.MissingRequired, want) {
		t.Errorf("MissingRequired = %v, want %v", result.MissingRequired, want)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
	if len(result.MissingOptional) != 0 {
		t.Errorf("expected no missing optional, got %v", result.MissingOptional)
	}
}

func TestValidate_InvalidRequiredIsErrorNotMissing(t *testing.T) {
	v := New(testRules, testChecks, quietLogger())
	snap := stubSnapshot{values: map[string]string{"API_KEY": "pk-123"}, min: 1, max: 2}

	result := v.Validate(snap)

	if result.Success {
		t.Error("expected failure")
	}
	if len(result.MissingRequired) != 0 {
		t.Errorf("expected no missing required, got %v", result.MissingRequired)
	}
	if !reflect.DeepEqual(result.Errors, []string{`API_KEY must start with "sk-"`}) {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestValidate_OnlyOptionalMissing(t *testing.T) {
	v := New(testRules, testChecks, quietLogger())
	snap := stubSnapshot{values: map[string]string{"API_KEY": "sk-abc"}, min: 1, max: 2}

	result := v.Validate(snap)

	if !result.Success {
		t.Errorf("expected success, got %+v", result)
	}
	if len(result.MissingOptional) != 2 {
		t.Errorf("expected 2 missing optional, got %v", result.MissingOptional)
	}
	if !strings.HasPrefix(result.MissingOptional[0], "CACHE_URL: ") ||
		!strings.HasPrefix(result.MissingOptional[1], "SENTRY_DSN: ") {
		t.Errorf("missing optional not in declaration order: %v", result.MissingOptional)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestValidate_InvalidOptionalIsWarning(t *testing.T) {
	v := New(testRules, testChecks, quietLogger())
	snap := stubSnapshot{
		values: map[string]string{"API_KEY": "sk-abc", "CACHE_URL": "memcached://x", "SENTRY_DSN": "http://dsn"},
		min:    1,
		max:    2,
	}

	result := v.Validate(snap)

	if !result.Success {
		t.Error("warnings must not affect success")
	}
	want := []string{`CACHE_URL must start with "redis://"`, "SENTRY_DSN must be a valid HTTPS URL"}
	if !reflect.DeepEqual(result.Warnings, want) {
		t.Errorf("Warnings = %v, want %v", result.Warnings, want)
	}
}

func TestValidate_CrossFieldCheck(t *testing.T) {
	v := New(testRules, testChecks, quietLogger())

	tests := []struct {
		name       string
		min, max   int
		wantErrors int
	}{
		{"min greater than max", 500, 100, 1},
		{"min less than max", 100, 500, 0},
		{"equal", 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := stubSnapshot{values: map[string]string{"API_KEY": "sk-abc"}, min: tt.min, max: tt.max}
			result := v.Validate(snap)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("got %d errors (%v), want %d", len(result.Errors), result.Errors, tt.wantErrors)
			}
			if result.Success != (tt.wantErrors == 0) {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantErrors == 0)
			}
		})
	}
}

func TestValidate_NoShortCircuit(t *testing.T) {
	v := New(testRules, testChecks, quietLogger())
	snap := stubSnapshot{values: map[string]string{"CACHE_URL": "bad"}, min: 9, max: 1}

	result := v.Validate(snap)

	if len(result.MissingRequired) != 1 || len(result.Warnings) != 1 ||
		len(result.MissingOptional) != 1 || len(result.Errors) != 1 {
		t.Errorf("expected every pass to report, got %+v", result)
	}
}

func TestValidate_DefaultErrorMessage(t *testing.T) {
	v := New[stubSnapshot]([]Rule{{Key: "PORT", Required: true, Validator: IsPort}}, nil, quietLogger())
	result := v.Validate(stubSnapshot{values: map[string]string{"PORT": "99999"}})
	if !reflect.DeepEqual(result.Errors, []string{"invalid value for PORT"}) {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestRequireValid(t *testing.T) {
	v := New(testRules, testChecks, quietLogger())

	t.Run("valid snapshot returned unchanged", func(t *testing.T) {
		snap := stubSnapshot{values: map[string]string{"API_KEY": "sk-abc"}, min: 1, max: 2}
		got, err := v.RequireValid(snap)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.values["API_KEY"] != "sk-abc" {
			t.Error("snapshot not returned unchanged")
		}
	})

	t.Run("invalid snapshot aggregates errors", func(t *testing.T) {
		snap := stubSnapshot{values: map[string]string{}, min: 5, max: 1}
		_, err := v.RequireValid(snap)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if !reflect.DeepEqual(verr.MissingKeys, []string{"API_KEY"}) {
			t.Errorf("MissingKeys = %v", verr.MissingKeys)
		}

		want := "environment validation failed: MIN must be less than MAX. missing required variables: API_KEY"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestResult_Report(t *testing.T) {
	r := Result{
		Success:         false,
		MissingRequired: []string{"API_KEY: key"},
		Errors:          []string{"bad port"},
	}
	report := r.Report()
	for _, want := range []string{"API_KEY: key", "bad port", "Environment validation failed"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) bool
		value string
		want  bool
	}{
		{"prefix ok", HasPrefix("sk-"), "sk-1", true},
		{"prefix bad", HasPrefix("sk-"), "pk-1", false},
		{"any prefix", HasAnyPrefix("redis://", "rediss://"), "rediss://h", true},
		{"min length", MinLength(3), "abc", true},
		{"longer than", LongerThan(3), "abc", false},
		{"one of", OneOf("a", "b"), "b", true},
		{"one of bad", OneOf("a", "b"), "c", false},
		{"url https", IsURL("https"), "https://sentry.io/1", true},
		{"url wrong scheme", IsURL("https"), "http://sentry.io/1", false},
		{"url no host", IsURL(), "localhost", false},
		{"port", IsPort, "8001", true},
		{"port zero", IsPort, "0", false},
		{"port nan", IsPort, "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.value); got != tt.want {
				t.Errorf("%s(%q) = %v, want %v", tt.name, tt.value, got, tt.want)
			}
		})
	}
}
