package env

import "os"

// Get returns the value of key, or fallback when the variable is unset or
// empty. Empty values are treated as unset so a blank override in a compose
// file does not clobber the default.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
