package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgannotate/internal/checksum"
	"github.com/vvka-141/pgannotate/internal/files/filesystem"
)

func newTestScanner(opts Options) (*Scanner, *filesystem.MemoryFileSystem) {
	fs := filesystem.NewMemoryFileSystem("/project")
	return NewScannerWithFS(checksum.New(), fs, opts), fs
}

func TestNewScannerWithFS_NilArgs(t *testing.T) {
	calc := checksum.New()
	fs := filesystem.NewMemoryFileSystem("/")

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil calculator", func() { NewScannerWithFS(nil, fs, Options{}) }},
		{"nil filesystem", func() { NewScannerWithFS(calc, nil, Options{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestScan_Directory(t *testing.T) {
	s, fs := newTestScanner(Options{})
	fs.AddFile("app/models/user.rb", "class User < ApplicationRecord\nend\n")
	fs.AddFile("app/models/admin/role.rb", "class Admin::Role < ApplicationRecord\nend\n")
	fs.AddFile("app/models/schema.yml", "users: {}\n")
	fs.AddFile("app/models/.cache/tmp.rb", "class Tmp\nend\n")

	result, err := s.Scan([]string{"/project/app/models"})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	role := result.Files[0]
	assert.Equal(t, "/project/app/models/admin/role.rb", role.Path)
	assert.Equal(t, "admin/role.rb", role.RelativePath)
	assert.Equal(t, "roles", role.Table)

	user := result.Files[1]
	assert.Equal(t, "user.rb", user.RelativePath)
	assert.Equal(t, "users", user.Table)
	assert.Equal(t, "class User < ApplicationRecord\nend\n", user.Content)
	assert.Equal(t, checksum.New().CalculateRaw([]byte(user.Content)), user.Checksum)
}

func TestScan_SingleFileAndDeduplication(t *testing.T) {
	s, fs := newTestScanner(Options{})
	fs.AddFile("models/user.rb", "class User\nend\n")

	result, err := s.Scan([]string{"/project/models/user.rb", "/project/models"})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "user.rb", result.Files[0].RelativePath)
	assert.Equal(t, "/project/models/user.rb", result.Files[0].Path)
}

func TestScan_ExcludeAndExtensions(t *testing.T) {
	s, fs := newTestScanner(Options{
		Extensions: []string{"RB", ".rake"},
		Exclude:    []string{"concerns", "/legacy/old.rb"},
	})
	fs.AddFile("models/user.rb", "class User\nend\n")
	fs.AddFile("models/concerns/auditable.rb", "module Auditable\nend\n")
	fs.AddFile("models/legacy/old.rb", "class Old\nend\n")
	fs.AddFile("models/legacy/kept.rb", "class Kept\nend\n")
	fs.AddFile("models/tasks/seed.rake", "task :seed\n")

	result, err := s.Scan([]string{"models"})
	require.NoError(t, err)

	var rel []string
	for _, f := range result.Files {
		rel = append(rel, f.RelativePath)
	}
	assert.Equal(t, []string{"legacy/kept.rb", "tasks/seed.rake", "user.rb"}, rel)
}

func TestScan_MissingRoot(t *testing.T) {
	s, _ := newTestScanner(Options{})

	_, err := s.Scan([]string{"/project/nope"})
	assert.Error(t, err)
}

func TestTableName(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		expected string
	}{
		{"simple", "user.rb", "class User\nend\n", "users"},
		{"compound", "user_role.rb", "class UserRole\nend\n", "user_roles"},
		{"irregular", "person.rb", "class Person\nend\n", "people"},
		{"category", "category.rb", "", "categories"},
		{"double quoted override", "user.rb", "class User\n  self.table_name = \"legacy_users\"\nend\n", "legacy_users"},
		{"single quoted override", "user.rb", "class User\n  self.table_name = 'accounts'\nend\n", "accounts"},
		{"symbol override", "user.rb", "class User\n  self.table_name = :members\nend\n", "members"},
		{"schema qualified override", "invoice.rb", "class Invoice\n  self.table_name = \"billing.invoices\"\nend\n", "billing.invoices"},
		{"commented override ignored", "user.rb", "class User\n  # self .table_name = 'x'\nend\n", "users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TableName(tt.file, tt.content))
		})
	}
}
