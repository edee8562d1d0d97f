package domain

import (
	"errors"
	"image"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
)

func newTestScope(t *testing.T) (*TempImageScope, string) {
	t.Helper()
	dir := t.TempDir()
	config := common.NewConfig(map[string]any{ConfigKeyTempDir: dir})
	return NewTempImageScope(config, common.NewNullLogger()), dir
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temp dir should contain no leftover files")
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 10, 10))
}

func TestWithTempImageCreatesAndRemovesFile(t *testing.T) {
	scope, dir := newTestScope(t)
	var seenPath string
	err := scope.WithTempImage(testImage(), func(path string) error {
		seenPath = path
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		return nil
	})
	require.NoError(t, err)
	_, err = os.Stat(seenPath)
	assert.True(t, os.IsNotExist(err))
	requireEmptyDir(t, dir)
}

func TestWithTempImageRemovesFileWhenBodyFails(t *testing.T) {
	scope, dir := newTestScope(t)
	bodyErr := errors.New("inference exploded")
	err := scope.WithTempImage(testImage(), func(path string) error {
		return bodyErr
	})
	require.ErrorIs(t, err, bodyErr)
	requireEmptyDir(t, dir)
}

func TestWithTempImageRemovesFileWhenBodyPanics(t *testing.T) {
	scope, dir := newTestScope(t)
	require.Panics(t, func() {
		_ = scope.WithTempImage(testImage(), func(path string) error {
			panic("inference exploded")
		})
	})
	requireEmptyDir(t, dir)
}

func TestWithTempImageFailsWhenDirDoesNotExist(t *testing.T) {
	config := common.NewConfig(map[string]any{ConfigKeyTempDir: "/nonexistent/really"})
	scope := NewTempImageScope(config, common.NewNullLogger())
	err := scope.WithTempImage(testImage(), func(path string) error {
		t.Fatal("body must not run without a temp file")
		return nil
	})
	var resourceError *ResourceError
	require.ErrorAs(t, err, &resourceError)
}

func TestWithTempImageGeneratesUniquePathsConcurrently(t *testing.T) {
	scope, dir := newTestScope(t)
	const workers = 16
	var mutex sync.Mutex
	paths := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = scope.WithTempImage(testImage(), func(path string) error {
				mutex.Lock()
				defer mutex.Unlock()
				paths[path] = true
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Len(t, paths, workers, "every request must get its own file")
	requireEmptyDir(t, dir)
}
