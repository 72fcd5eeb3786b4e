// Package services implements the driving port interfaces.
// Services contain the core build logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO or filesystem access of their own.
package services
