package errors

import "fmt"

// LookupError is returned when a name does not resolve to exactly one
// object. The RPC itself succeeded.
type LookupError struct {
	ObjectType string
	Name       string
	Count      int
	Reason     string
}

func (e *LookupError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("lookup %s %q: %s", e.ObjectType, e.Name, e.Reason)
	}

	if e.Count == 0 {
		return fmt.Sprintf("lookup %s %q: not found", e.ObjectType, e.Name)
	}

	return fmt.Sprintf("lookup %s %q: ambiguous, %d matches", e.ObjectType, e.Name, e.Count)
}

// ConfigurationError reports missing or invalid connection settings.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Reason
	}

	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}
