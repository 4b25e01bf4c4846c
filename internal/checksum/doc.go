// Package checksum provides file content hashing.
//
// The scanner records the raw checksum of every model file it reads. The
// writer recomputes it under the file lock right before replacing the file,
// so a file edited between scan and write is reported as a conflict instead
// of being overwritten.
//
// # Example Usage
//
//	calculator := checksum.New()
//	sum := calculator.CalculateRaw(fileContent)
//	if !calculator.Matches(onDisk, sum) { ... }
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
