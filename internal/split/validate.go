package split

import (
	"fmt"
	"strings"
)

// Rules configures record validation. The zero value accepts nothing useful;
// use DefaultRules for sensible limits.
type Rules struct {
	// MaxUsernameLength bounds the username; -1 disables the check.
	MaxUsernameLength int `yaml:"max_username_length"`
	// UsernameWhitelist, when non-empty, is the only set of accepted names
	// (case-insensitive exact match). It takes precedence over the blacklist.
	UsernameWhitelist []string `yaml:"username_whitelist"`
	// UsernameBlacklist rejects names containing any listed substring
	// (case-insensitive). Consulted only when the whitelist is empty.
	UsernameBlacklist []string `yaml:"username_blacklist"`
	// MinDurationMs and MaxDurationMs bound believable trip times.
	MinDurationMs int64 `yaml:"min_duration_ms"`
	MaxDurationMs int64 `yaml:"max_duration_ms"`
}

// DefaultRules returns the stock validation limits: any name, trips between
// 100ms and 24 hours.
func DefaultRules() Rules {
	return Rules{
		MaxUsernameLength: -1,
		MinDurationMs:     100,
		MaxDurationMs:     24 * 60 * 60 * 1000,
	}
}

// ValidationError reports a record field that failed validation. It is
// recoverable: the caller should surface it and let the user fix the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateUsername checks a username against the rules. The empty check uses
// the trimmed value so whitespace-only names are rejected.
func ValidateUsername(username string, rules Rules) error {
	if strings.TrimSpace(username) == "" {
		return &ValidationError{Field: "username", Reason: "cannot be empty"}
	}

	if rules.MaxUsernameLength > 0 && len(username) > rules.MaxUsernameLength {
		return &ValidationError{
			Field:  "username",
			Reason: fmt.Sprintf("must be %d characters or less", rules.MaxUsernameLength),
		}
	}

	lower := strings.ToLower(username)

	if len(rules.UsernameWhitelist) > 0 {
		for _, allowed := range rules.UsernameWhitelist {
			if lower == strings.ToLower(allowed) {
				return nil
			}
		}
		return &ValidationError{Field: "username", Reason: "not in whitelist"}
	}

	for _, prohibited := range rules.UsernameBlacklist {
		if prohibited == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(prohibited)) {
			return &ValidationError{Field: "username", Reason: "on blacklist"}
		}
	}

	return nil
}

// ValidateDuration checks a trip duration against the rules.
func ValidateDuration(durationMs int64, rules Rules) error {
	if durationMs <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be positive"}
	}
	if rules.MaxDurationMs > 0 && durationMs > rules.MaxDurationMs {
		return &ValidationError{
			Field:  "duration",
			Reason: fmt.Sprintf("cannot exceed %dms", rules.MaxDurationMs),
		}
	}
	if durationMs < rules.MinDurationMs {
		return &ValidationError{
			Field:  "duration",
			Reason: fmt.Sprintf("must be at least %dms", rules.MinDurationMs),
		}
	}
	return nil
}

// Validate checks a whole submitted record. Carrying items only makes sense
// for stair trips; an elevator record carrying the key is rejected rather
// than silently dropped.
func (r Record) Validate(rules Rules) error {
	if err := ValidateUsername(r.User, rules); err != nil {
		return err
	}
	if err := ValidateDuration(r.DurationMs, rules); err != nil {
		return err
	}
	if r.IsElevator && r.CarryingItems != nil {
		return &ValidationError{Field: "carrying_items", Reason: "not applicable to elevator trips"}
	}
	return nil
}
