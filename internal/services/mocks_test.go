package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/pgannotate/internal/checksum"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

type mockScanner struct {
	files []pgannotate.ModelFile
	err   error
}

func (m *mockScanner) Scan([]string) (pgannotate.ScanResult, error) {
	return pgannotate.ScanResult{Files: m.files}, m.err
}

// modelFile builds a scanned file with a valid checksum.
func modelFile(rel, table, content string) pgannotate.ModelFile {
	return pgannotate.ModelFile{
		Path:         "/app/models/" + rel,
		RelativePath: rel,
		Table:        table,
		Content:      content,
		Checksum:     checksum.New().CalculateRaw([]byte(content)),
	}
}

type mockProvider struct {
	annotations map[string]string
	errs        map[string]error
}

func (m *mockProvider) Render(_ context.Context, table string) (string, error) {
	if err, ok := m.errs[table]; ok {
		return "", err
	}
	text, ok := m.annotations[table]
	if !ok {
		return "", fmt.Errorf("%s: %w", table, pgannotate.ErrTableNotFound)
	}
	return text, nil
}

type mockWriter struct {
	mu      sync.Mutex
	written map[string]string
	err     error
}

func (m *mockWriter) Write(_ context.Context, path, _ string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.written == nil {
		m.written = make(map[string]string)
	}
	m.written[path] = string(content)
	return nil
}

type mockApprover struct {
	mu       sync.Mutex
	approved bool
	err      error
	asked    []string
}

func (m *mockApprover) RequestApproval(_ context.Context, path, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asked = append(m.asked, path)
	return m.approved, m.err
}
