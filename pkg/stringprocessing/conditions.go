// Package stringprocessing provides pure text helpers shared across chatllm:
// boolean-like value evaluation for configuration and the thinking/final
// splitter for reasoning-model output.
package stringprocessing

import "strings"

var (
	truthyValues = map[string]bool{"true": true, "1": true, "yes": true, "on": true, "enabled": true}
	falsyValues  = map[string]bool{"false": true, "0": true, "no": true, "off": true, "disabled": true}
)

// IsTruthy evaluates a configuration value as a boolean (case-insensitive).
//
//	IsTruthy("yes")      -> true
//	IsTruthy("off")      -> false
//	IsTruthy("")         -> false
//	IsTruthy("  ")       -> false (whitespace-only)
//	IsTruthy("anything") -> true
func IsTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || falsyValues[value] {
		return false
	}
	return true
}

// FlagValue evaluates value like IsTruthy but returns fallback when value is
// blank or not one of the recognized boolean words.
func FlagValue(value string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	if truthyValues[v] || falsyValues[v] {
		return IsTruthy(v)
	}
	return fallback
}
