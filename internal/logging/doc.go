// Package logging provides concrete implementations of the pgannotate.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr (or any io.Writer)
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
// Files are annotated in parallel, so every line is written with a single
// Write call under a mutex and never interleaves with another.
package logging
