package ebmonitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records booking and removal calls on top of a MemoryStore.
type countingStore struct {
	*MemoryStore
	booked  int
	removed int
}

func (s *countingStore) Book2D(name string, title string, nx int, xlow, xhigh float64, ny int, ylow, yhigh float64) *MonitorElement {
	s.booked++
	return s.MemoryStore.Book2D(name, title, nx, xlow, xhigh, ny, ylow, yhigh)
}

func (s *countingStore) RemoveElement(name string) {
	s.removed++
	s.MemoryStore.RemoveElement(name)
}

type failingGeometry struct {
	BarrelGeometry
}

func (g *failingGeometry) InitializeForRun(int) error {
	return errors.New("no conditions for run")
}

func newTestTask(t *testing.T, enableCleanup bool) (*OccupancyTask, *countingStore, *recordingLogger) {
	t.Helper()
	config := DefaultConfiguration()
	config.EnableCleanup = enableCleanup
	backend := &countingStore{MemoryStore: NewMemoryStore()}
	logger := &recordingLogger{}
	task := NewOccupancyTask(config, NewBarrelGeometry(), backend, logger)
	task.OnRunStart()
	return task, backend, logger
}

func fullEvent(run int, id uint32) *MemoryEvent {
	event := NewMemoryEvent(run, id)
	event.AddDigis(DefaultDigiCollection)
	event.AddPnDiodeDigis(DefaultPnDiodeCollection)
	return event
}

func TestOccupancyTask_EndToEnd(t *testing.T) {
	task, _, logger := newTestTask(t, true)

	event := fullEvent(1, 1)
	event.AddDigis(DefaultDigiCollection, ebID(t, -2, 81))
	event.AddPnDiodeDigis(DefaultPnDiodeCollection, pnID(t, 14, 3))

	require.NoError(t, task.OnEvent(event))
	assert.Equal(t, 1, task.EventCount())
	assert.True(t, task.Initialized())
	assert.Empty(t, logger.warnings)

	main := task.Store().Element(5, MainGrid).Hist()
	assert.Equal(t, 1.0, binContent(t, main, 1.5, 0.5))
	assert.Equal(t, 1.0, inRangeSumW(main))

	mem := task.Store().Element(5, MemGrid).Hist()
	for _, y := range []float64{0.5, 1.5, 2.5, 3.5, 4.5} {
		assert.Equal(t, 1.0, binContent(t, mem, 2.5, y), "y = %g", y)
	}
	assert.Equal(t, 5.0, inRangeSumW(mem))

	for ism := 1; ism <= NumberOfSMs; ism++ {
		if ism == 5 {
			continue
		}
		assert.Equal(t, 0.0, inRangeSumW(task.Store().Element(ism, MainGrid).Hist()), "sm %d", ism)
		assert.Equal(t, 0.0, inRangeSumW(task.Store().Element(ism, MemGrid).Hist()), "sm %d", ism)
	}
}

func TestOccupancyTask_FivePnFillsPerDiode(t *testing.T) {
	task, _, _ := newTestTask(t, true)

	event := fullEvent(1, 1)
	for pn := 1; pn <= PnDiodesPerMem; pn++ {
		event.AddPnDiodeDigis(DefaultPnDiodeCollection, pnID(t, 30, pn))
	}
	require.NoError(t, task.OnEvent(event))

	mem := task.Store().Element(21, MemGrid).Hist()
	for pn := 1; pn <= PnDiodesPerMem; pn++ {
		for ch := 1; ch <= ChannelsPerStrip; ch++ {
			assert.Equal(t, 1.0, binContent(t, mem, float64(pn)-0.5, float64(ch)-0.5))
		}
	}
	assert.Equal(t, float64(PnDiodesPerMem*ChannelsPerStrip), inRangeSumW(mem))
}

func TestOccupancyTask_SetupOnlyOnce(t *testing.T) {
	task, backend, _ := newTestTask(t, true)

	require.NoError(t, task.OnEvent(fullEvent(1, 1)))
	require.NoError(t, task.OnEvent(fullEvent(1, 2)))

	assert.Equal(t, 2*NumberOfSMs, backend.booked)
	assert.Equal(t, 2*NumberOfSMs, backend.Len())
	assert.Equal(t, 2, task.EventCount())
}

func TestOccupancyTask_MissingDigis(t *testing.T) {
	task, _, logger := newTestTask(t, true)

	event := NewMemoryEvent(1, 1)
	event.AddPnDiodeDigis(DefaultPnDiodeCollection, pnID(t, 14, 3))

	require.NoError(t, task.OnEvent(event))
	assert.Equal(t, 1, task.EventCount())
	assert.True(t, logger.warned(DefaultDigiCollection+" not available"))
	assert.False(t, logger.warned(DefaultPnDiodeCollection))
	assert.Equal(t, 5.0, inRangeSumW(task.Store().Element(5, MemGrid).Hist()))
}

func TestOccupancyTask_MissingPnDiodes(t *testing.T) {
	task, _, logger := newTestTask(t, true)

	event := NewMemoryEvent(1, 1)
	event.AddDigis(DefaultDigiCollection, ebID(t, -2, 81))

	require.NoError(t, task.OnEvent(event))
	assert.Equal(t, 1, task.EventCount())
	assert.True(t, logger.warned(DefaultPnDiodeCollection+" not available"))
	assert.False(t, logger.warned(DefaultDigiCollection))
	assert.Equal(t, 1.0, inRangeSumW(task.Store().Element(5, MainGrid).Hist()))
}

func TestOccupancyTask_EmptyCollectionsAreNotMissing(t *testing.T) {
	task, _, logger := newTestTask(t, true)

	require.NoError(t, task.OnEvent(fullEvent(1, 1)))
	assert.Empty(t, logger.warnings)
}

func TestOccupancyTask_MalformedIDIsWarnedAndProcessingGoesOn(t *testing.T) {
	task, _, logger := newTestTask(t, true)

	event := fullEvent(1, 1)
	event.AddDigis(DefaultDigiCollection, EBDetIDFromFields(false, 86, 1), ebID(t, -1, 1))

	require.NoError(t, task.OnEvent(event))
	assert.True(t, logger.warned("xie, xip 85.5 0.5"))

	main := task.Store().Element(1, MainGrid).Hist()
	assert.Equal(t, 1.0, inRangeSumW(main), "only the valid crystal lands in a bin")
	assert.Equal(t, 1.0, binContent(t, main, 0.5, 0.5))
}

func TestOccupancyTask_UnknownChannelIsSkipped(t *testing.T) {
	task, _, logger := newTestTask(t, true)

	event := fullEvent(1, 1)
	event.AddPnDiodeDigis(DefaultPnDiodeCollection, PnDiodeDetIDFromFields(60, 1), pnID(t, 10, 1))

	require.NoError(t, task.OnEvent(event))
	assert.True(t, logger.warned("unknown channel"))
	assert.Equal(t, 5.0, inRangeSumW(task.Store().Element(1, MemGrid).Hist()))
}

func TestOccupancyTask_GeometryFailureAbortsEvent(t *testing.T) {
	backend := NewMemoryStore()
	task := NewOccupancyTask(DefaultConfiguration(), &failingGeometry{}, backend, nil)
	task.OnRunStart()

	err := task.OnEvent(fullEvent(7, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 7")
	assert.Equal(t, 0, task.EventCount())
	assert.False(t, task.Initialized())
	assert.Equal(t, 0, backend.Len())
}

func TestOccupancyTask_TeardownWithCleanup(t *testing.T) {
	task, backend, logger := newTestTask(t, true)

	require.NoError(t, task.OnEvent(fullEvent(1, 1)))
	require.NoError(t, task.OnEvent(fullEvent(1, 2)))
	task.OnRunEnd()

	assert.Contains(t, logger.infos, "analyzed 2 events")
	assert.Equal(t, 2*NumberOfSMs, backend.removed)
	assert.Equal(t, 0, backend.Len())
	assert.False(t, task.Initialized())

	task.OnRunStart()
	assert.Equal(t, 0, task.EventCount())
	require.NoError(t, task.OnEvent(fullEvent(2, 1)))
	assert.True(t, task.Initialized())
	assert.Equal(t, 4*NumberOfSMs, backend.booked)
	assert.Equal(t, 2*NumberOfSMs, backend.Len())
}

func TestOccupancyTask_TeardownWithoutCleanup(t *testing.T) {
	task, backend, _ := newTestTask(t, false)

	event := fullEvent(1, 1)
	event.AddDigis(DefaultDigiCollection, ebID(t, -2, 81))
	require.NoError(t, task.OnEvent(event))
	task.OnRunEnd()

	assert.Equal(t, 0, backend.removed)
	assert.Equal(t, 2*NumberOfSMs, backend.Len())
	assert.True(t, task.Initialized())

	// the maps survive into the next run and keep accumulating
	task.OnRunStart()
	require.NoError(t, task.OnEvent(event))
	assert.Equal(t, 2*NumberOfSMs, backend.booked)
	assert.Equal(t, 2.0, binContent(t, task.Store().Element(5, MainGrid).Hist(), 1.5, 0.5))
}

func TestOccupancyTask_TeardownBeforeAnyEvent(t *testing.T) {
	task, backend, logger := newTestTask(t, true)

	task.OnRunEnd()
	assert.Contains(t, logger.infos, "analyzed 0 events")
	assert.Equal(t, 0, backend.removed)
}

func TestOccupancyTask_RunStartDropsStaleFolder(t *testing.T) {
	backend := NewMemoryStore()
	backend.SetCurrentFolder(DefaultFolder)
	backend.Book2D("stale", "stale", 1, 0, 1, 1, 0, 1)
	backend.SetCurrentFolder("Elsewhere")
	backend.Book2D("kept", "kept", 1, 0, 1, 1, 0, 1)

	task := NewOccupancyTask(DefaultConfiguration(), NewBarrelGeometry(), backend, nil)
	task.OnRunStart()

	_, ok := backend.Get(DefaultFolder + "/stale")
	assert.False(t, ok)
	_, ok = backend.Get("Elsewhere/kept")
	assert.True(t, ok)
}

func TestOccupancyTask_CustomLabels(t *testing.T) {
	config := DefaultConfiguration()
	config.DigiCollection = "mydigis"
	config.TaskLabel = "TEST"
	backend := NewMemoryStore()
	task := NewOccupancyTask(config, NewBarrelGeometry(), backend, nil)

	event := NewMemoryEvent(1, 1)
	event.AddDigis("mydigis", ebID(t, 1, 1))
	require.NoError(t, task.OnEvent(event))

	me, ok := backend.Get(DefaultFolder + "/TEST occupancy EB+01")
	require.True(t, ok)
	assert.Equal(t, 1.0, binContent(t, me.Hist(), 0.5, 19.5))
}
