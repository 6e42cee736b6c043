// Package pkgconfig exposes configuration through the small Config interface
// so modules can be tested with an in-memory fake. Viper is the production
// implementation: a YAML file with DATASWEEPER_* environment overrides.
package pkgconfig
