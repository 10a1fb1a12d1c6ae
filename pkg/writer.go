package ebmonitor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/hdf5"
)

// Writer stores crystal and PN diode readouts in the HDF5 layout read by HDF5Reader:
//
//	/Run/runInfo              run_number
//	/Run/events               evt_number, timestamp
//	/EB/digis/<label>         evt_number, raw_id
//	/EB/pndiodes/<label>      evt_number, raw_id
//
// Tables for a label are created the first time the label is seen.
type Writer struct {
	File             *hdf5.File
	Filename         string
	FirstEvt         bool
	CompressionLevel int
	RunGroup         *hdf5.Group
	EBGroup          *hdf5.Group
	DigisGroup       *hdf5.Group
	PnDiodesGroup    *hdf5.Group
	RunInfoTable     *hdf5.Dataset
	EventTable       *hdf5.Dataset
	DigiTables       map[string]*hdf5.Dataset
	PnDiodeTables    map[string]*hdf5.Dataset
	rowsWritten      map[*hdf5.Dataset]int
	EvtCounter       int
}

func NewWriter(filename string, compressionLevel int) (*Writer, error) {
	writer := &Writer{
		Filename:         filename,
		CompressionLevel: compressionLevel,
		DigiTables:       make(map[string]*hdf5.Dataset),
		PnDiodeTables:    make(map[string]*hdf5.Dataset),
		rowsWritten:      make(map[*hdf5.Dataset]int),
	}
	var err error
	if writer.File, err = createFile(filename); err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(&writer.File.CommonFG, runGroupName); err != nil {
		writer.File.Close()
		return nil, err
	}
	if writer.EBGroup, err = createGroup(&writer.File.CommonFG, ebGroupName); err != nil {
		writer.File.Close()
		return nil, err
	}
	if writer.DigisGroup, err = createGroup(&writer.EBGroup.CommonFG, digisGroupName); err != nil {
		writer.File.Close()
		return nil, err
	}
	if writer.PnDiodesGroup, err = createGroup(&writer.EBGroup.CommonFG, pnDiodeGroupName); err != nil {
		writer.File.Close()
		return nil, err
	}
	if writer.RunInfoTable, err = createTable(writer.RunGroup, runInfoTableName, RunInfoHDF5{}, compressionLevel); err != nil {
		writer.File.Close()
		return nil, err
	}
	if writer.EventTable, err = createTable(writer.RunGroup, eventsTableName, EventDataHDF5{}, compressionLevel); err != nil {
		writer.File.Close()
		return nil, err
	}
	return writer, nil
}

// TableName turns a collection label into a dataset name.
func TableName(label string) string {
	return strings.ReplaceAll(label, "/", "_")
}

func (w *Writer) WriteEvent(event *MemoryEvent, timestamp uint64) error {
	if !w.FirstEvt {
		runInfo := []RunInfoHDF5{{run_number: int32(event.Run)}}
		if err := appendRows(w, w.RunInfoTable, &runInfo); err != nil {
			return fmt.Errorf("error writing run info: %w", err)
		}
		w.FirstEvt = true
	}

	evtData := []EventDataHDF5{{evt_number: int32(event.ID), timestamp: timestamp}}
	if err := appendRows(w, w.EventTable, &evtData); err != nil {
		return fmt.Errorf("error writing event %d: %w", event.ID, err)
	}

	for _, label := range sortedLabels(event.DigiSets) {
		rows := make([]ChannelHDF5, len(event.DigiSets[label]))
		for i, digi := range event.DigiSets[label] {
			rows[i] = ChannelHDF5{evt_number: int32(event.ID), raw_id: uint32(digi.ID)}
		}
		table, err := w.table(w.DigiTables, w.DigisGroup, label)
		if err != nil {
			return err
		}
		if err := appendRows(w, table, &rows); err != nil {
			return fmt.Errorf("error writing %s for event %d: %w", label, event.ID, err)
		}
	}

	for _, label := range sortedLabels(event.PnDiodeSets) {
		rows := make([]ChannelHDF5, len(event.PnDiodeSets[label]))
		for i, pn := range event.PnDiodeSets[label] {
			rows[i] = ChannelHDF5{evt_number: int32(event.ID), raw_id: uint32(pn.ID)}
		}
		table, err := w.table(w.PnDiodeTables, w.PnDiodesGroup, label)
		if err != nil {
			return err
		}
		if err := appendRows(w, table, &rows); err != nil {
			return fmt.Errorf("error writing %s for event %d: %w", label, event.ID, err)
		}
	}

	w.EvtCounter++
	return nil
}

func (w *Writer) table(tables map[string]*hdf5.Dataset, group *hdf5.Group, label string) (*hdf5.Dataset, error) {
	if table, ok := tables[label]; ok {
		return table, nil
	}
	table, err := createTable(group, TableName(label), ChannelHDF5{}, w.CompressionLevel)
	if err != nil {
		return nil, err
	}
	tables[label] = table
	return table, nil
}

func appendRows[T any](w *Writer, table *hdf5.Dataset, rows *[]T) error {
	nRows := w.rowsWritten[table]
	if err := writeArrayToTable(table, rows, nRows); err != nil {
		return err
	}
	w.rowsWritten[table] = nRows + len(*rows)
	return nil
}

func sortedLabels[T any](sets map[string][]T) []string {
	labels := make([]string, 0, len(sets))
	for label := range sets {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (w *Writer) Close() error {
	var errs []error

	for label, table := range w.DigiTables {
		if err := table.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing digi table %s: %w", label, err))
		}
	}
	for label, table := range w.PnDiodeTables {
		if err := table.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing PN diode table %s: %w", label, err))
		}
	}
	if err := w.EventTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing event table: %w", err))
	}
	if err := w.RunInfoTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run info table: %w", err))
	}
	for _, group := range []*hdf5.Group{w.PnDiodesGroup, w.DigisGroup, w.EBGroup, w.RunGroup} {
		if err := group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing group: %w", err))
		}
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file %s: %w", w.Filename, err))
	}
	return errors.Join(errs...)
}
