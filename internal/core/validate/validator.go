package validate

import (
	"log/slog"

	"github.com/vietddude/echoscribe/internal/metrics"
)

// Validator evaluates a fixed rule table and cross-field checks. It holds no
// mutable state and is safe for concurrent use.
type Validator[S Snapshot] struct {
	rules  []Rule
	checks []Check[S]
	log    *slog.Logger
}

// New creates a Validator. The rule and check slices are copied.
func New[S Snapshot](rules []Rule, checks []Check[S], log *slog.Logger) *Validator[S] {
	if log == nil {
		log = slog.Default()
	}
	return &Validator[S]{
		rules:  append([]Rule(nil), rules...),
		checks: append([]Check[S](nil), checks...),
		log:    log.With("component", "config-validator"),
	}
}

// Validate runs the required pass, the optional pass and the cross-field checks,
// in declaration order. It never fails; problems are reported in the Result.
func (v *Validator[S]) Validate(snap S) Result {
	result := newResult()

	for _, rule := range v.rules {
		if !rule.Required {
			continue
		}
		value := snap.Lookup(rule.Key)
		if value == "" {
			result.MissingRequired = append(result.MissingRequired, rule.missing())
			continue
		}
		if rule.Validator != nil && !rule.Validator(value) {
			result.Errors = append(result.Errors, rule.invalid())
		}
	}

	for _, rule := range v.rules {
		if rule.Required {
			continue
		}
		value := snap.Lookup(rule.Key)
		if value == "" {
			result.MissingOptional = append(result.MissingOptional, rule.missing())
			continue
		}
		if rule.Validator != nil && !rule.Validator(value) {
			result.Warnings = append(result.Warnings, rule.invalid())
		}
	}

	for _, check := range v.checks {
		if !check.OK(snap) {
			result.Errors = append(result.Errors, check.Message)
		}
	}

	result.Success = len(result.Errors) == 0 && len(result.MissingRequired) == 0
	v.logResult(result)
	return result
}

// RequireValid validates snap and returns it unchanged, or a *ValidationError
// summarizing every error and missing required key.
func (v *Validator[S]) RequireValid(snap S) (S, error) {
	result := v.Validate(snap)
	if !result.Success {
		var zero S
		return zero, &ValidationError{
			Errors:      result.Errors,
			MissingKeys: result.MissingRequiredKeys(),
		}
	}
	return snap, nil
}

func (v *Validator[S]) logResult(r Result) {
	if r.Success {
		metrics.ConfigValidationsTotal.WithLabelValues("success").Inc()
		metrics.ConfigHealthy.Set(1)
	} else {
		metrics.ConfigValidationsTotal.WithLabelValues("failure").Inc()
		metrics.ConfigHealthy.Set(0)
	}

	for _, missing := range r.MissingRequired {
		v.log.Error("Missing required environment variable", "variable", missing)
	}
	if len(r.MissingRequired) > 0 {
		v.log.Error("Please check your .env file and ensure all required variables are set")
	}

	if len(r.Errors) > 0 {
		v.log.Error("Environment validation errors", "errors", r.Errors)
	}

	if len(r.MissingOptional) > 0 {
		v.log.Warn("Missing optional environment variables; some AI features may not be available",
			"variables", r.MissingOptional)
	}

	for _, warning := range r.Warnings {
		v.log.Warn(warning)
	}

	if r.Success {
		v.log.Info("Environment validation completed successfully")
	} else {
		v.log.Error("Environment validation failed",
			"errors", len(r.Errors),
			"missing_required", len(r.MissingRequired),
		)
	}
}
