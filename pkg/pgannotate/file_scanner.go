package pgannotate

// FileScanner discovers model files that may carry an annotation.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileScanner interface {
	// Scan walks every root and returns the model files found, in walk
	// order. A root may be a directory or a single file. Files reachable
	// from several roots are returned once.
	Scan(roots []string) (ScanResult, error)
}

// ScanResult contains the model files found by a FileScanner.
type ScanResult struct {
	Files []ModelFile
}

// ModelFile is a candidate source file together with the table it describes.
type ModelFile struct {
	// Path is the absolute path of the file.
	Path string

	// RelativePath is the slash-separated path relative to the scanned root,
	// or the base name when the root was the file itself.
	RelativePath string

	// Table is the table name derived from the file.
	Table string

	// Content is the full unmodified file content.
	Content string

	// Checksum is the SHA-256 of the raw content, used to detect concurrent edits.
	Checksum string
}
