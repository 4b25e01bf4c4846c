package scanner

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/vvka-141/pgannotate/internal/checksum"
	"github.com/vvka-141/pgannotate/internal/files/filesystem"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// DefaultExtensions are scanned when Options.Extensions is empty.
var DefaultExtensions = []string{".rb"}

// tableNamePattern matches an explicit table name assignment:
//
//	self.table_name = "legacy_users"
//	self.table_name = :people
var tableNamePattern = regexp.MustCompile(`(?m)^\s*self\.table_name\s*=\s*(?:"([^"]+)"|'([^']+)'|:(\w+))`)

// Options controls which files are scanned.
type Options struct {
	// Extensions to include, with leading dot. Case-insensitive.
	Extensions []string

	// Exclude lists slash-separated path fragments; a file or directory whose
	// relative path contains one is skipped.
	Exclude []string
}

// Scanner discovers model files from directory trees.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided calculator and fsProvider are also thread-safe.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.FileSystemProvider
	extensions map[string]bool
	exclude    []string
}

// NewScanner creates a new file scanner using the OS filesystem.
// Panics if calculator is nil.
func NewScanner(calculator checksum.Calculator, opts Options) *Scanner {
	return NewScannerWithFS(calculator, filesystem.NewOSFileSystem(), opts)
}

// NewScannerWithFS creates a new file scanner with a custom filesystem provider.
// Panics if calculator or fsProvider is nil.
func NewScannerWithFS(calculator checksum.Calculator, fsProvider filesystem.FileSystemProvider, opts Options) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}

	var exclude []string
	for _, e := range opts.Exclude {
		if e = strings.Trim(filepath.ToSlash(strings.TrimSpace(e)), "/"); e != "" {
			exclude = append(exclude, e)
		}
	}

	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
		extensions: extensions,
		exclude:    exclude,
	}
}

// Scan walks every root and returns the model files found.
func (s *Scanner) Scan(roots []string) (pgannotate.ScanResult, error) {
	var files []pgannotate.ModelFile
	seen := make(map[string]bool)

	add := func(f pgannotate.ModelFile) {
		if seen[f.Path] {
			return
		}
		seen[f.Path] = true
		files = append(files, f)
	}

	for _, root := range roots {
		info, err := s.fsProvider.Stat(root)
		if err != nil {
			return pgannotate.ScanResult{}, fmt.Errorf("failed to access %s: %w", root, err)
		}

		if !info.IsDir() {
			content, err := s.fsProvider.ReadFile(root)
			if err != nil {
				return pgannotate.ScanResult{}, fmt.Errorf("failed to read %s: %w", root, err)
			}
			abs, err := filepath.Abs(root)
			if err != nil {
				abs = root
			}
			add(s.modelFile(filepath.ToSlash(abs), path.Base(filepath.ToSlash(root)), content))
			continue
		}

		if err := s.scanDirectory(root, add); err != nil {
			return pgannotate.ScanResult{}, err
		}
	}

	return pgannotate.ScanResult{Files: files}, nil
}

func (s *Scanner) scanDirectory(root string, add func(pgannotate.ModelFile)) error {
	dir, err := s.fsProvider.Open(root)
	if err != nil {
		return fmt.Errorf("failed to open directory: %w", err)
	}

	return dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking %s: %w", root, err)
		}

		rel := file.RelativePath()
		if file.Info().IsDir() {
			if rel != "." && (strings.HasPrefix(file.Info().Name(), ".") || s.excluded(rel)) {
				return filesystem.SkipDir
			}
			return nil
		}

		if !s.extensions[strings.ToLower(path.Ext(rel))] || s.excluded(rel) {
			return nil
		}

		content, err := file.ReadContent()
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", rel, err)
		}

		add(s.modelFile(filepath.ToSlash(file.Path()), rel, content))
		return nil
	})
}

func (s *Scanner) excluded(rel string) bool {
	rel = "/" + rel + "/"
	for _, e := range s.exclude {
		if strings.Contains(rel, "/"+e+"/") {
			return true
		}
	}
	return false
}

func (s *Scanner) modelFile(absPath, rel string, content []byte) pgannotate.ModelFile {
	return pgannotate.ModelFile{
		Path:         absPath,
		RelativePath: rel,
		Table:        TableName(path.Base(rel), string(content)),
		Content:      string(content),
		Checksum:     s.calculator.CalculateRaw(content),
	}
}

// TableName derives the table a model file maps to. An explicit
// self.table_name assignment wins; otherwise the file's base name without
// extension is pluralized.
func TableName(fileName, content string) string {
	if m := tableNamePattern.FindStringSubmatch(content); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				return g
			}
		}
	}
	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	return inflection.Plural(strings.ToLower(base))
}

// Verify Scanner implements the interface at compile time
var _ pgannotate.FileScanner = (*Scanner)(nil)
