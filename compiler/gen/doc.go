// Package gen turns a normalized variant configuration into a serving
// stack: it composes Python artifacts from embedded fragments, checks the
// rendered set for cross-artifact consistency, and emits it atomically.
package gen
