// Package domain holds the battle state model and the pure decision
// functions that gate action submissions. Nothing in this package performs
// I/O; turn resolution belongs to the engine and persistence to the stores.
package domain
