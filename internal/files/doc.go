// Package files groups the model file handling sub-packages:
//   - filesystem: OS and in-memory filesystem abstraction
//   - scanner: model file discovery, table name inference and checksums
//   - writer: locked, checksum-guarded atomic replacement of model files
//
// # Usage
//
//	calc := checksum.New()
//	result, err := scanner.NewScanner(calc, scanner.Options{}).Scan([]string{"app/models"})
//	...
//	err = writer.New(calc, 0).Write(ctx, file.Path, file.Checksum, newContent)
package files
