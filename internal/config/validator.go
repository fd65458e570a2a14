// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after
// unmarshal and secret resolution, so the binary never runs with
// partial, malformed, or missing configuration.  The rules in use are
// the built-ins attached to the model structs: `required`,
// `hostname_port`, and `fqdn`.

package config

import "github.com/go-playground/validator/v10"

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
