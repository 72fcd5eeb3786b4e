// Package memory provides in-memory implementations of the storage ports.
// They hold no state across processes and are used for tests and dry wiring.
package memory
