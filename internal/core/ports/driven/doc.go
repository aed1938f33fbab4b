// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - FileScanner: Discovers markdown files below a root directory
//   - DocumentLoader: Reads one file from disk
//   - Parser: Turns raw markdown into a searchable Document
//   - ConfigStore: Loads and saves user settings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChangeWatcher: File system events. Without it the index is static.
//   - Clipboard: Copy actions report an error without it.
//   - Opener: Open actions report an error without it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
