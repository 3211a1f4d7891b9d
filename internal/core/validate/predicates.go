package validate

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// HasPrefix accepts values starting with prefix.
func HasPrefix(prefix string) func(string) bool {
	return func(v string) bool { return strings.HasPrefix(v, prefix) }
}

// HasAnyPrefix accepts values starting with any of prefixes.
func HasAnyPrefix(prefixes ...string) func(string) bool {
	return func(v string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(v, p) {
				return true
			}
		}
		return false
	}
}

// MinLength accepts values of at least n bytes.
func MinLength(n int) func(string) bool {
	return func(v string) bool { return len(v) >= n }
}

// LongerThan accepts values of more than n bytes.
func LongerThan(n int) func(string) bool {
	return func(v string) bool { return len(v) > n }
}

// OneOf accepts values from a fixed set.
func OneOf(allowed ...string) func(string) bool {
	return func(v string) bool { return slices.Contains(allowed, v) }
}

// IsURL accepts absolute URLs with one of the given schemes (any scheme when empty).
func IsURL(schemes ...string) func(string) bool {
	return func(v string) bool {
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		return len(schemes) == 0 || slices.Contains(schemes, u.Scheme)
	}
}

// IsPort accepts 1..65535.
func IsPort(v string) bool {
	p, err := strconv.Atoi(v)
	return err == nil && p > 0 && p < 65536
}
