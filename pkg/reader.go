package ebmonitor

import (
	"fmt"
	"sort"

	"gonum.org/v1/hdf5"
)

// HDF5Reader loads a file written by Writer and serves its events in order.
// A collection label with a table in the file is available in every event
// of the file, empty when the event has no rows for it. A label without a
// table is not available at all.
type HDF5Reader struct {
	Filename  string
	RunNumber int
	events    []*MemoryEvent
	position  int
}

func NewHDF5Reader(filename string, digiLabels []string, pnDiodeLabels []string, logger Logger) (*HDF5Reader, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	reader := &HDF5Reader{Filename: filename}

	runGroup, err := file.OpenGroup(runGroupName)
	if err != nil {
		return nil, fmt.Errorf("error opening group %s: %w", runGroupName, err)
	}
	defer runGroup.Close()

	runInfo, err := readTable[RunInfoHDF5](&runGroup.CommonFG, runInfoTableName)
	if err != nil {
		return nil, err
	}
	if len(runInfo) > 0 {
		reader.RunNumber = int(runInfo[0].run_number)
	}

	eventRows, err := readTable[EventDataHDF5](&runGroup.CommonFG, eventsTableName)
	if err != nil {
		return nil, err
	}
	byID := make(map[int32]*MemoryEvent, len(eventRows))
	for _, row := range eventRows {
		event := NewMemoryEvent(reader.RunNumber, uint32(row.evt_number))
		reader.events = append(reader.events, event)
		byID[row.evt_number] = event
	}

	ebGroup, err := file.OpenGroup(ebGroupName)
	if err != nil {
		logger.Warning(fmt.Sprintf("no %s group in %s", ebGroupName, filename), "hdf5Reader")
		return reader, nil
	}
	defer ebGroup.Close()

	for _, label := range digiLabels {
		rows, ok := readChannelTable(ebGroup, digisGroupName, label, logger)
		if !ok {
			continue
		}
		for _, event := range reader.events {
			event.AddDigis(label)
		}
		for _, row := range rows {
			if event, found := byID[row.evt_number]; found {
				event.AddDigis(label, EBDetID(row.raw_id))
			}
		}
	}

	for _, label := range pnDiodeLabels {
		rows, ok := readChannelTable(ebGroup, pnDiodeGroupName, label, logger)
		if !ok {
			continue
		}
		for _, event := range reader.events {
			event.AddPnDiodeDigis(label)
		}
		for _, row := range rows {
			if event, found := byID[row.evt_number]; found {
				event.AddPnDiodeDigis(label, PnDiodeDetID(row.raw_id))
			}
		}
	}

	sort.SliceStable(reader.events, func(i, j int) bool {
		return reader.events[i].ID < reader.events[j].ID
	})
	return reader, nil
}

func readChannelTable(ebGroup *hdf5.Group, groupName string, label string, logger Logger) ([]ChannelHDF5, bool) {
	group, err := ebGroup.OpenGroup(groupName)
	if err != nil {
		logger.Warning(fmt.Sprintf("no %s group, %s not in file", groupName, label), "hdf5Reader")
		return nil, false
	}
	defer group.Close()

	rows, err := readTable[ChannelHDF5](&group.CommonFG, TableName(label))
	if err != nil {
		logger.Warning(fmt.Sprintf("%s not in file: %v", label, err), "hdf5Reader")
		return nil, false
	}
	return rows, true
}

func (r *HDF5Reader) NumEvents() int {
	return len(r.events)
}

// Next returns the next event, or false once the file is exhausted.
func (r *HDF5Reader) Next() (*MemoryEvent, bool) {
	if r.position >= len(r.events) {
		return nil, false
	}
	event := r.events[r.position]
	r.position++
	return event, true
}
