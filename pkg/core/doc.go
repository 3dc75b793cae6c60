// Package core defines the shared language of the leapcheck system.
//
// This package contains:
//   - Diagnostic levels (Level) and their parsing
//   - Validation messages (Message) produced by the engine
//   - The run report (Report) rendered by the CLI and the HTTP API
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
