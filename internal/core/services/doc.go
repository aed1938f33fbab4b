// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The query engine lives here too: ParseQuery turns user input into a
// domain.Query and Score rates one document against it without any
// index state.
package services
