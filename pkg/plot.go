package ebmonitor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"
)

// RenderOccupancy draws every occupancy map booked under folder to a PNG in
// dir. Maps are looked up by their supermodule tag. It returns the files written.
func RenderOccupancy(store *MemoryStore, folder string, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating plot directory: %w", err)
	}

	files := make([]string, 0, 2*NumberOfSMs)
	for ism := 1; ism <= NumberOfSMs; ism++ {
		for _, me := range store.ByTag(folder, ism) {
			fname := filepath.Join(dir, plotFileName(me.Name()))
			if err := renderElement(me, fname); err != nil {
				return files, err
			}
			files = append(files, fname)
		}
	}
	return files, nil
}

func renderElement(me *MonitorElement, fname string) error {
	p := hplot.New()
	p.Title.Text = me.Title()
	if strings.Contains(me.Name(), "MEM") {
		p.X.Label.Text = "pn"
		p.Y.Label.Text = "channel in strip"
	} else {
		p.X.Label.Text = "ieta"
		p.Y.Label.Text = "iphi"
	}

	h := hplot.NewH2D(me.Hist(), palette.Heat(64, 1))
	p.Add(h)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, fname); err != nil {
		return fmt.Errorf("error saving %s: %w", fname, err)
	}
	return nil
}

// plotFileName maps "EBOT MEM occupancy EB+01" to "EBOT_MEM_occupancy_EBp01.png".
func plotFileName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "+", "p", "-", "m", "/", "_")
	return replacer.Replace(name) + ".png"
}
