package ebmonitor

import (
	"errors"
	"fmt"
)

// folderRemover is implemented by backends able to drop a whole folder.
type folderRemover interface {
	RemoveFolder(folder string)
}

// OccupancyTask accumulates crystal and PN diode occupancy per supermodule.
// The host calls OnRunStart, then OnEvent once per event, then OnRunEnd,
// all from the same goroutine.
type OccupancyTask struct {
	config   Configuration
	geometry Geometry
	backend  HistogramStore
	store    *OccupancyStore
	logger   Logger

	init bool
	ievt int
}

func NewOccupancyTask(config Configuration, geometry Geometry, backend HistogramStore, logger Logger) *OccupancyTask {
	if logger == nil {
		logger = nopLogger{}
	}
	if config.TaskLabel == "" {
		config.TaskLabel = DefaultTaskLabel
	}
	if config.Folder == "" {
		config.Folder = DefaultFolder
	}
	return &OccupancyTask{
		config:   config,
		geometry: geometry,
		backend:  backend,
		store:    NewOccupancyStore(backend, geometry.SupermoduleLabel, config.TaskLabel, config.Folder, config.EnableCleanup),
		logger:   logger,
	}
}

func (t *OccupancyTask) Initialized() bool {
	return t.init
}

func (t *OccupancyTask) EventCount() int {
	return t.ievt
}

func (t *OccupancyTask) Store() *OccupancyStore {
	return t.store
}

func (t *OccupancyTask) Folder() string {
	return t.config.Folder
}

// OnRunStart resets the event counter. Leftovers of a previous task in the
// folder are dropped unless this task still owns booked maps.
func (t *OccupancyTask) OnRunStart() {
	t.ievt = 0

	if t.init || t.backend == nil {
		return
	}
	t.backend.SetCurrentFolder(t.config.Folder)
	if remover, ok := t.backend.(folderRemover); ok {
		remover.RemoveFolder(t.config.Folder)
	}
}

// OnEvent fills the occupancy maps with one event. Only a geometry failure
// is returned; missing collections and odd coordinates are logged.
func (t *OccupancyTask) OnEvent(event Event) error {
	if err := t.geometry.InitializeForRun(event.RunNumber()); err != nil {
		return fmt.Errorf("initializing geometry for run %d: %w", event.RunNumber(), err)
	}

	if !t.init {
		t.setup()
	}

	t.ievt++

	if err := t.fillCrystals(event); err != nil {
		return err
	}
	return t.fillMem(event)
}

// OnRunEnd reports the number of analyzed events and drops the maps.
func (t *OccupancyTask) OnRunEnd() {
	t.logger.Info(fmt.Sprintf("analyzed %d events", t.ievt), "EBOccupancyTask")

	if t.init {
		t.cleanup()
	}
}

func (t *OccupancyTask) setup() {
	t.init = true
	t.store.Book()
}

func (t *OccupancyTask) cleanup() {
	if !t.store.Clear() {
		return
	}
	t.init = false
}

func (t *OccupancyTask) fillCrystals(event Event) error {
	label := t.config.DigiCollection
	digis, ok := event.Digis(label)
	if !ok {
		t.logger.Warning(fmt.Sprintf("%s not available", label), "EBOccupancyTask")
		return nil
	}

	if t.config.Verbosity > 1 {
		message := fmt.Sprintf("event %d digi collection size %d", t.ievt, len(digis))
		t.logger.Debug(message, "EBOccupancyTask")
	}

	for _, digi := range digis {
		id := digi.ID

		ism, xie, xip, err := MapMainChannel(t.geometry, id)
		if err != nil {
			if errors.Is(err, ErrGeometryNotInitialized) {
				return err
			}
			t.logger.Warning(fmt.Sprintf("det id = %v: %v", id, err), "EBOccupancyTask")
			continue
		}
		ie, ip := ChannelPosition(id.IC())

		if t.config.Verbosity > 2 {
			t.logger.Debug(fmt.Sprintf("det id = %v", id), "EBOccupancyTask")
			t.logger.Debug(fmt.Sprintf("sm, eta, phi %d %d %d", ism, ie, ip), "EBOccupancyTask")
		}

		if !InsideMainGrid(xie, xip) {
			t.logger.Warning(fmt.Sprintf("det id = %v", id), "EBOccupancyTask")
			t.logger.Warning(fmt.Sprintf("sm, eta, phi %d %d %d", ism, ie, ip), "EBOccupancyTask")
			t.logger.Warning(fmt.Sprintf("xie, xip %g %g", xie, xip), "EBOccupancyTask")
		}

		t.store.Fill(ism, MainGrid, xie, xip)
	}
	return nil
}

// fillMem fills the five channels in strip of every PN diode, which are
// not told apart once the diode is reconstructed.
func (t *OccupancyTask) fillMem(event Event) error {
	label := t.config.PnDiodeCollection
	pns, ok := event.PnDiodeDigis(label)
	if !ok {
		t.logger.Warning(fmt.Sprintf("%s not available", label), "EBOccupancyTask")
		return nil
	}

	for _, pn := range pns {
		ism, pnID, err := MapAuxiliaryChannel(t.geometry, pn.ID)
		if err != nil {
			if errors.Is(err, ErrGeometryNotInitialized) {
				return err
			}
			t.logger.Warning(fmt.Sprintf("pn id = %v: %v", pn.ID, err), "EBOccupancyTask")
			continue
		}

		xpn := BinCenter(pnID)
		for chInStrip := 1; chInStrip <= ChannelsPerStrip; chInStrip++ {
			t.store.Fill(ism, MemGrid, xpn, BinCenter(chInStrip))
		}
	}
	return nil
}
