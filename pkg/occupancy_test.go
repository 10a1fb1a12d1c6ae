package ebmonitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramName(t *testing.T) {
	assert.Equal(t, "EBOT occupancy EB-05", HistogramName("EBOT", MainGrid, "EB-05"))
	assert.Equal(t, "EBOT MEM occupancy EB+01", HistogramName("EBOT", MemGrid, "EB+01"))
}

func TestOccupancyStore_Book(t *testing.T) {
	backend := NewMemoryStore()
	store := NewOccupancyStore(backend, nil, DefaultTaskLabel, DefaultFolder, true)
	store.Book()

	require.Equal(t, 2*NumberOfSMs, backend.Len())
	for ism := 1; ism <= NumberOfSMs; ism++ {
		main := store.Element(ism, MainGrid)
		mem := store.Element(ism, MemGrid)
		require.NotNil(t, main)
		require.NotNil(t, mem)

		assert.Equal(t, DefaultFolder, main.Folder())
		assert.Equal(t, HistogramName(DefaultTaskLabel, MainGrid, SupermoduleLabel(ism)), main.Name())
		assert.Equal(t, main.Name(), main.Title())
		assert.Equal(t, []int{ism}, main.Tags())
		assert.Equal(t, []int{ism}, mem.Tags())

		assert.Equal(t, MainGridXBins, main.Hist().Binning.Nx)
		assert.Equal(t, MainGridYBins, main.Hist().Binning.Ny)
		assert.Equal(t, MemGridXBins, mem.Hist().Binning.Nx)
		assert.Equal(t, MemGridYBins, mem.Hist().Binning.Ny)

		assert.Equal(t, []*MonitorElement{mem, main}, backend.ByTag(DefaultFolder, ism))
	}

	_, ok := backend.Get(DefaultFolder + "/EBOT MEM occupancy EB+18")
	assert.True(t, ok)
}

func TestOccupancyStore_FillWithoutBookingIsNoop(t *testing.T) {
	backend := NewMemoryStore()
	store := NewOccupancyStore(backend, nil, DefaultTaskLabel, DefaultFolder, true)

	store.Fill(5, MainGrid, 1.5, 0.5)
	store.Fill(0, MainGrid, 1.5, 0.5)
	store.Fill(37, MemGrid, 1.5, 0.5)
	assert.Nil(t, store.Element(5, MainGrid))
	assert.Equal(t, 0, backend.Len())
}

func TestOccupancyStore_Fill(t *testing.T) {
	backend := NewMemoryStore()
	store := NewOccupancyStore(backend, nil, DefaultTaskLabel, DefaultFolder, true)
	store.Book()

	store.Fill(5, MainGrid, 1.5, 0.5)
	store.Fill(5, MemGrid, 2.5, 4.5)
	store.Fill(37, MainGrid, 1.5, 0.5)

	assert.Equal(t, 1.0, binContent(t, store.Element(5, MainGrid).Hist(), 1.5, 0.5))
	assert.Equal(t, 1.0, inRangeSumW(store.Element(5, MainGrid).Hist()))
	assert.Equal(t, 1.0, binContent(t, store.Element(5, MemGrid).Hist(), 2.5, 4.5))
	assert.Equal(t, 0.0, inRangeSumW(store.Element(4, MainGrid).Hist()))
}

func TestOccupancyStore_Clear(t *testing.T) {
	backend := NewMemoryStore()
	store := NewOccupancyStore(backend, nil, DefaultTaskLabel, DefaultFolder, true)
	store.Book()

	assert.True(t, store.Clear())
	assert.Equal(t, 0, backend.Len())
	for ism := 1; ism <= NumberOfSMs; ism++ {
		assert.Nil(t, store.Element(ism, MainGrid))
		assert.Nil(t, store.Element(ism, MemGrid))
	}
}

func TestOccupancyStore_ClearDisabled(t *testing.T) {
	backend := NewMemoryStore()
	store := NewOccupancyStore(backend, nil, DefaultTaskLabel, DefaultFolder, false)
	store.Book()

	assert.False(t, store.Clear())
	assert.Equal(t, 2*NumberOfSMs, backend.Len())
	assert.NotNil(t, store.Element(1, MainGrid))
}

func TestOccupancyStore_CustomLabels(t *testing.T) {
	backend := NewMemoryStore()
	labels := func(ism int) string { return "SM" + SupermoduleLabel(ism)[2:] }
	store := NewOccupancyStore(backend, labels, "XX", "F", true)
	store.Book()

	_, ok := backend.Get("F/XX occupancy SM-05")
	assert.True(t, ok)
}
