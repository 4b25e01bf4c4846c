// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// The scanner discovers model files through FileSystemProvider so it can be
// tested against an in-memory tree. Writes never go through this package;
// they need real files for locking and atomic rename (see package writer).
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem
