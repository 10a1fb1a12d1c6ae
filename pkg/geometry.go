package ebmonitor

import "fmt"

// Geometry places channels in supermodules for the current run.
type Geometry interface {
	// InitializeForRun must succeed before any other call in a run.
	InitializeForRun(runNumber int) error
	SupermoduleIndexOf(id DetID) (int, error)
	SupermoduleLabel(ism int) string
}

// SupermoduleLabel returns the conventional name of a barrel supermodule:
// EB-01..EB-18 for indices 1..18 and EB+01..EB+18 for 19..36.
func SupermoduleLabel(ism int) string {
	switch {
	case ism >= 1 && ism <= SMsPerSide:
		return fmt.Sprintf("EB-%02d", ism)
	case ism > SMsPerSide && ism <= NumberOfSMs:
		return fmt.Sprintf("EB+%02d", ism-SMsPerSide)
	default:
		return fmt.Sprintf("EB?%02d", ism)
	}
}

// BarrelGeometry derives the supermodule from the id fields. It does not need
// any external data but still enforces the per-run initialization contract.
type BarrelGeometry struct {
	initialized bool
	runNumber   int
}

func NewBarrelGeometry() *BarrelGeometry {
	return &BarrelGeometry{}
}

func (g *BarrelGeometry) InitializeForRun(runNumber int) error {
	g.initialized = true
	g.runNumber = runNumber
	return nil
}

func (g *BarrelGeometry) SupermoduleIndexOf(id DetID) (int, error) {
	if !g.initialized {
		return 0, ErrGeometryNotInitialized
	}
	switch {
	case id.IsBarrel():
		return EBDetID(id).ISM(), nil
	case id.IsPnDiode():
		dcc := PnDiodeDetID(id).IDCCID()
		if dcc < FirstBarrelDCC || dcc > LastBarrelDCC {
			return 0, &ErrUnknownChannel{ID: id, Reason: fmt.Sprintf("DCC %d is not a barrel DCC", dcc)}
		}
		return dcc - FirstBarrelDCC + 1, nil
	default:
		return 0, &ErrUnknownChannel{ID: id, Reason: "not a barrel channel"}
	}
}

func (g *BarrelGeometry) SupermoduleLabel(ism int) string {
	return SupermoduleLabel(ism)
}
