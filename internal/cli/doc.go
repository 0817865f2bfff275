// Package cli defines the daforge command surface: deploy, list, validate,
// and version. Each command lives in its own file and registers itself on
// the root command in init.
package cli
