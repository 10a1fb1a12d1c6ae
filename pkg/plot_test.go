package ebmonitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotFileName(t *testing.T) {
	assert.Equal(t, "EBOT_MEM_occupancy_EBp01.png", plotFileName("EBOT MEM occupancy EB+01"))
	assert.Equal(t, "EBOT_occupancy_EBm18.png", plotFileName("EBOT occupancy EB-18"))
}

func TestRenderOccupancy(t *testing.T) {
	store := NewMemoryStore()
	store.SetCurrentFolder(DefaultFolder)
	me := store.Book2D("EBOT occupancy EB-05", "EBOT occupancy EB-05", 85, 0, 85, 20, 0, 20)
	store.Tag(me, 5)
	store.Fill(me, 1.5, 0.5)
	untagged := store.Book2D("other", "other", 1, 0, 1, 1, 0, 1)
	store.Fill(untagged, 0.5, 0.5)

	dir := filepath.Join(t.TempDir(), "plots")
	files, err := RenderOccupancy(store, DefaultFolder, dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "EBOT_occupancy_EBm05.png")}, files)

	info, err := os.Stat(files[0])
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
