// Package driving defines what the CLI, the MCP server and the TUI may ask of
// the core: reading and rewriting notes, reading and changing settings, and
// listing the audit log.
//
// Implementations live in internal/core/services. Adapters depend on these
// interfaces only, so tests can substitute fakes.
package driving
