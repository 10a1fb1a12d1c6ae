package ebmonitor

import "fmt"

const (
	DefaultTaskLabel = "EBOT"
	DefaultFolder    = "EcalBarrel/EBOccupancyTask"
)

// HistogramName builds the name of an occupancy map, e.g.
// "EBOT occupancy EB-05" or "EBOT MEM occupancy EB+01".
func HistogramName(taskLabel string, grid Grid, smLabel string) string {
	if grid == MemGrid {
		return fmt.Sprintf("%s MEM occupancy %s", taskLabel, smLabel)
	}
	return fmt.Sprintf("%s occupancy %s", taskLabel, smLabel)
}

// OccupancyStore owns the two occupancy maps of every supermodule between
// booking and clearing.
type OccupancyStore struct {
	backend       HistogramStore
	labels        func(ism int) string
	taskLabel     string
	folder        string
	enableCleanup bool

	occupancy    [NumberOfSMs]*MonitorElement
	occupancyMem [NumberOfSMs]*MonitorElement
}

func NewOccupancyStore(backend HistogramStore, labels func(ism int) string, taskLabel string, folder string, enableCleanup bool) *OccupancyStore {
	if labels == nil {
		labels = SupermoduleLabel
	}
	return &OccupancyStore{
		backend:       backend,
		labels:        labels,
		taskLabel:     taskLabel,
		folder:        folder,
		enableCleanup: enableCleanup,
	}
}

// Book creates both maps for every supermodule and tags them with the
// supermodule index. It must not be called twice without Clear in between.
func (s *OccupancyStore) Book() {
	if s.backend == nil {
		return
	}
	s.backend.SetCurrentFolder(s.folder)

	for i := 0; i < NumberOfSMs; i++ {
		name := HistogramName(s.taskLabel, MainGrid, s.labels(i+1))
		s.occupancy[i] = s.backend.Book2D(name, name,
			MainGridXBins, 0., MainGridXBins, MainGridYBins, 0., MainGridYBins)
		s.backend.Tag(s.occupancy[i], i+1)
	}
	for i := 0; i < NumberOfSMs; i++ {
		name := HistogramName(s.taskLabel, MemGrid, s.labels(i+1))
		s.occupancyMem[i] = s.backend.Book2D(name, name,
			MemGridXBins, 0., MemGridXBins, MemGridYBins, 0., MemGridYBins)
		s.backend.Tag(s.occupancyMem[i], i+1)
	}
}

// Fill adds one count at (x, y). Missing handles are silently skipped.
func (s *OccupancyStore) Fill(ism int, grid Grid, x, y float32) {
	me := s.Element(ism, grid)
	if me == nil {
		return
	}
	s.backend.Fill(me, float64(x), float64(y))
}

// Element returns the handle of a map, nil if not booked.
func (s *OccupancyStore) Element(ism int, grid Grid) *MonitorElement {
	if ism < 1 || ism > NumberOfSMs {
		return nil
	}
	switch grid {
	case MainGrid:
		return s.occupancy[ism-1]
	case MemGrid:
		return s.occupancyMem[ism-1]
	default:
		return nil
	}
}

// Clear removes every booked map from the backend. It reports whether the
// maps were actually removed, which does not happen when cleanup is disabled.
func (s *OccupancyStore) Clear() bool {
	if !s.enableCleanup {
		return false
	}

	if s.backend != nil {
		s.backend.SetCurrentFolder(s.folder)

		for i := 0; i < NumberOfSMs; i++ {
			if s.occupancy[i] != nil {
				s.backend.RemoveElement(s.occupancy[i].Name())
			}
			s.occupancy[i] = nil
			if s.occupancyMem[i] != nil {
				s.backend.RemoveElement(s.occupancyMem[i].Name())
			}
			s.occupancyMem[i] = nil
		}
	}
	return true
}
