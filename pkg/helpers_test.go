package ebmonitor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
)

type recordingLogger struct {
	infos    []string
	debugs   []string
	warnings []string
	errors   []string
}

func (l *recordingLogger) Info(message string, module string) {
	l.infos = append(l.infos, message)
}

func (l *recordingLogger) Debug(message string, module string) {
	l.debugs = append(l.debugs, message)
}

func (l *recordingLogger) Warning(message string, module string) {
	l.warnings = append(l.warnings, message)
}

func (l *recordingLogger) Error(message string) {
	l.errors = append(l.errors, message)
}

func (l *recordingLogger) warned(substr string) bool {
	for _, w := range l.warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

// binContent returns the sum of weights of the in-range bin holding (x, y).
func binContent(t *testing.T, h *hbook.H2D, x, y float64) float64 {
	t.Helper()
	for i := range h.Binning.Bins {
		bin := &h.Binning.Bins[i]
		if x >= bin.XRange.Min && x < bin.XRange.Max && y >= bin.YRange.Min && y < bin.YRange.Max {
			return bin.SumW()
		}
	}
	require.Fail(t, fmt.Sprintf("no bin contains (%g, %g)", x, y))
	return 0
}

// inRangeSumW sums the weights of every in-range bin.
func inRangeSumW(h *hbook.H2D) float64 {
	sum := 0.0
	for i := range h.Binning.Bins {
		sum += h.Binning.Bins[i].SumW()
	}
	return sum
}

func ebID(t *testing.T, ieta, iphi int) EBDetID {
	t.Helper()
	id, err := NewEBDetID(ieta, iphi)
	require.NoError(t, err)
	return id
}

func pnID(t *testing.T, dcc, pn int) PnDiodeDetID {
	t.Helper()
	id, err := NewPnDiodeDetID(dcc, pn)
	require.NoError(t, err)
	return id
}
