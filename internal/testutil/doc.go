// Package testutil holds deterministic stand-ins for the controller's
// clock and cycle id generator, so scenario traces are reproducible.
package testutil
