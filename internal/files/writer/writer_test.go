package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgannotate/internal/checksum"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

func writeModel(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.rb")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestWrite_ReplacesContentAndKeepsMode(t *testing.T) {
	original := "class User\nend\n"
	path := writeModel(t, original, 0640)
	w := New(checksum.New(), time.Second)

	err := w.Write(context.Background(), path, checksum.New().CalculateRaw([]byte(original)), []byte("# annotated\nclass User\nend\n"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# annotated\nclass User\nend\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.ElementsMatch(t, []string{"user.rb", "user.rb.lock"}, names, "temporary files must be cleaned up")
}

func TestWrite_ConcurrentWritersOneWins(t *testing.T) {
	original := "class User\nend\n"
	path := writeModel(t, original, 0644)
	expected := checksum.New().CalculateRaw([]byte(original))

	const writers = 8
	errs := make([]error, writers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := New(checksum.New(), 5*time.Second)
			<-start
			errs[i] = w.Write(context.Background(), path, expected, []byte(fmt.Sprintf("# writer %d\nclass User\nend\n", i)))
		}()
	}
	close(start)
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			assert.Equal(t, -1, winner, "more than one writer succeeded")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, pgannotate.ErrFileConflict)
	}
	require.NotEqual(t, -1, winner, "no writer succeeded")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("# writer %d\nclass User\nend\n", winner), string(got))
}

func TestWrite_LockFileReusedAcrossWrites(t *testing.T) {
	original := "class User\nend\n"
	path := writeModel(t, original, 0644)
	w := New(checksum.New(), time.Second)
	calc := checksum.New()

	require.NoError(t, w.Write(context.Background(), path, calc.CalculateRaw([]byte(original)), []byte("v1\n")))
	first, err := os.Stat(path + ".lock")
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), path, calc.CalculateRaw([]byte("v1\n")), []byte("v2\n")))
	second, err := os.Stat(path + ".lock")
	require.NoError(t, err)

	assert.True(t, os.SameFile(first, second), "lock file must not be recreated between writes")
}

func TestWrite_ConflictWhenFileChanged(t *testing.T) {
	path := writeModel(t, "class User\nend\n", 0644)
	w := New(checksum.New(), time.Second)
	staleSum := checksum.New().CalculateRaw([]byte("class User\n  # edited\nend\n"))

	err := w.Write(context.Background(), path, staleSum, []byte("overwritten"))

	require.Error(t, err)
	assert.ErrorIs(t, err, pgannotate.ErrFileConflict)

	got, _ := os.ReadFile(path)
	assert.Equal(t, "class User\nend\n", string(got))
}

func TestWrite_LockTimeout(t *testing.T) {
	original := "class User\nend\n"
	path := writeModel(t, original, 0644)

	held := flock.New(path + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	w := New(checksum.New(), 50*time.Millisecond)
	err = w.Write(context.Background(), path, checksum.New().CalculateRaw([]byte(original)), []byte("x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestWrite_MissingFile(t *testing.T) {
	w := New(checksum.New(), time.Second)

	err := w.Write(context.Background(), filepath.Join(t.TempDir(), "gone.rb"), "abc", []byte("x"))

	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	w := New(checksum.New(), 0)
	assert.Equal(t, pgannotate.DefaultLockTimeout, w.lockTimeout)

	assert.Panics(t, func() { New(nil, time.Second) })
}
