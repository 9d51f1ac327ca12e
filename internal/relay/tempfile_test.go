package relay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanupRemovesFile(t *testing.T) {
	m := NewTempFileManager(zap.NewNop())
	path := filepath.Join(t.TempDir(), "upload.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	m.Cleanup(path)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupToleratesMissingFile(t *testing.T) {
	m := NewTempFileManager(zap.NewNop())

	// Deleting a path that never existed must not panic or escalate.
	m.Cleanup(filepath.Join(t.TempDir(), "never-there.png"))
	m.Cleanup("")
}
