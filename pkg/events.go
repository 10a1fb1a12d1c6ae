package ebmonitor

// EBDataFrame is one crystal readout. Only the channel identity matters here,
// the samples are carried for completeness.
type EBDataFrame struct {
	ID      EBDetID
	Samples []uint16
}

// PnDiodeDigi is one monitoring diode readout.
type PnDiodeDigi struct {
	ID      PnDiodeDetID
	Samples []uint16
}

// Event gives access to the collections of one event by label.
// A false second result means the collection is not available, which is
// not the same as an available but empty collection.
type Event interface {
	RunNumber() int
	EventID() uint32
	Digis(label string) ([]EBDataFrame, bool)
	PnDiodeDigis(label string) ([]PnDiodeDigi, bool)
}

// MemoryEvent is an Event whose collections are held in maps.
type MemoryEvent struct {
	Run         int
	ID          uint32
	DigiSets    map[string][]EBDataFrame
	PnDiodeSets map[string][]PnDiodeDigi
}

func NewMemoryEvent(run int, id uint32) *MemoryEvent {
	return &MemoryEvent{
		Run:         run,
		ID:          id,
		DigiSets:    make(map[string][]EBDataFrame),
		PnDiodeSets: make(map[string][]PnDiodeDigi),
	}
}

func (e *MemoryEvent) RunNumber() int {
	return e.Run
}

func (e *MemoryEvent) EventID() uint32 {
	return e.ID
}

func (e *MemoryEvent) Digis(label string) ([]EBDataFrame, bool) {
	digis, ok := e.DigiSets[label]
	return digis, ok
}

func (e *MemoryEvent) PnDiodeDigis(label string) ([]PnDiodeDigi, bool) {
	digis, ok := e.PnDiodeSets[label]
	return digis, ok
}

// AddDigis appends crystal readouts, making the collection available even when ids is empty.
func (e *MemoryEvent) AddDigis(label string, ids ...EBDetID) {
	digis := e.DigiSets[label]
	if digis == nil {
		digis = make([]EBDataFrame, 0, len(ids))
	}
	for _, id := range ids {
		digis = append(digis, EBDataFrame{ID: id})
	}
	e.DigiSets[label] = digis
}

// AddPnDiodeDigis appends diode readouts, making the collection available even when ids is empty.
func (e *MemoryEvent) AddPnDiodeDigis(label string, ids ...PnDiodeDetID) {
	digis := e.PnDiodeSets[label]
	if digis == nil {
		digis = make([]PnDiodeDigi, 0, len(ids))
	}
	for _, id := range ids {
		digis = append(digis, PnDiodeDigi{ID: id})
	}
	e.PnDiodeSets[label] = digis
}
