// Package testutil holds deterministic stand-ins for the clock and ID
// generator of the parse log, so tests and golden files see stable values.
package testutil
