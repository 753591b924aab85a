// Package viz provides the terminal view of a running simulation.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live particle view with a stats panel and sparkline
//   - [Canvas]: Braille-based pixel canvas with per-species colors
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	Tab   - Cycle the graphed observable
//	V     - Toggle velocity vectors
//	+ / - - Integration steps per frame
//	?     - Show help overlay
package viz
