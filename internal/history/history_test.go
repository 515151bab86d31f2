package history

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPersistsAcrossInstances(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")

	h, err := New(file, 10)
	require.NoError(t, err)
	require.NoError(t, h.Add("ls -la"))
	require.NoError(t, h.Add("status"))

	reopened, err := New(file, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ls -la", "status"}, reopened.GetAll())
}

func TestHistoryKeepsMostRecent(t *testing.T) {
	h, err := New("", 3)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Add(fmt.Sprintf("echo %d", i)))
	}
	assert.Equal(t, []string{"echo 2", "echo 3", "echo 4"}, h.GetAll())
}

func TestHistoryDisabled(t *testing.T) {
	h, err := New("", 0)
	require.NoError(t, err)

	require.NoError(t, h.Add("echo"))
	assert.Empty(t, h.GetAll())
}
