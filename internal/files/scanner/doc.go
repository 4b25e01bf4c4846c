// Package scanner discovers model files and derives the table each one describes.
//
// The scanner package is responsible for:
//   - Walking model directories (or single files) for configured extensions
//   - Skipping hidden directories and excluded path fragments
//   - Deriving the table name: an explicit `self.table_name = "..."` wins,
//     otherwise the pluralized file name (user_role.rb -> user_roles)
//   - Recording content and raw checksum for conflict detection on write
//
// The scanner is filesystem-agnostic through the filesystem.FileSystemProvider
// interface, enabling testing with in-memory filesystems.
package scanner
