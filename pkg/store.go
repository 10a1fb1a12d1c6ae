package ebmonitor

import (
	"path"
	"sort"
	"strings"
	"sync"

	"go-hep.org/x/hep/hbook"
)

// HistogramStore is the backend owning named 2-D histograms in a folder tree.
type HistogramStore interface {
	SetCurrentFolder(folder string)
	Book2D(name string, title string, nx int, xlow, xhigh float64, ny int, ylow, yhigh float64) *MonitorElement
	Tag(me *MonitorElement, tag int)
	Fill(me *MonitorElement, x, y float64)
	// RemoveElement removes a histogram of the current folder by name.
	RemoveElement(name string)
}

// MonitorElement is a booked histogram together with its place in the store.
type MonitorElement struct {
	name   string
	folder string
	tags   []int
	hist   *hbook.H2D
}

func (me *MonitorElement) Name() string {
	return me.name
}

func (me *MonitorElement) Folder() string {
	return me.folder
}

func (me *MonitorElement) Path() string {
	return path.Join(me.folder, me.name)
}

func (me *MonitorElement) Title() string {
	if title, ok := me.hist.Ann["title"].(string); ok {
		return title
	}
	return me.name
}

func (me *MonitorElement) Tags() []int {
	return append([]int(nil), me.tags...)
}

func (me *MonitorElement) HasTag(tag int) bool {
	for _, t := range me.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Hist exposes the underlying histogram. Fills must go through the store.
func (me *MonitorElement) Hist() *hbook.H2D {
	return me.hist
}

// MemoryStore keeps monitor elements in memory, keyed by full path.
//
// Fills outside the booked axis ranges are accounted by hbook in the
// under/overflow bins and never reach an in-range bin.
type MemoryStore struct {
	mu       sync.RWMutex
	current  string
	elements map[string]*MonitorElement
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{elements: make(map[string]*MonitorElement)}
}

func (s *MemoryStore) SetCurrentFolder(folder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cleanFolder(folder)
}

func (s *MemoryStore) CurrentFolder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Book2D creates a histogram in the current folder. Booking an existing name
// replaces the previous histogram.
func (s *MemoryStore) Book2D(name string, title string, nx int, xlow, xhigh float64, ny int, ylow, yhigh float64) *MonitorElement {
	h := hbook.NewH2D(nx, xlow, xhigh, ny, ylow, yhigh)
	h.Ann["name"] = name
	h.Ann["title"] = title

	s.mu.Lock()
	defer s.mu.Unlock()
	me := &MonitorElement{name: name, folder: s.current, hist: h}
	s.elements[me.Path()] = me
	return me
}

func (s *MemoryStore) Tag(me *MonitorElement, tag int) {
	if me == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !me.HasTag(tag) {
		me.tags = append(me.tags, tag)
	}
}

func (s *MemoryStore) Fill(me *MonitorElement, x, y float64) {
	if me == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	me.hist.Fill(x, y, 1)
}

func (s *MemoryStore) RemoveElement(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.elements, path.Join(s.current, name))
}

// RemoveFolder removes every element in folder and its sub-folders.
func (s *MemoryStore) RemoveFolder(folder string) {
	folder = cleanFolder(folder)
	s.mu.Lock()
	defer s.mu.Unlock()
	for p, me := range s.elements {
		if inFolder(me.folder, folder) {
			delete(s.elements, p)
		}
	}
}

// Get returns the element stored at the full path folder/name.
func (s *MemoryStore) Get(fullPath string) (*MonitorElement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	me, ok := s.elements[cleanFolder(fullPath)]
	return me, ok
}

// ByTag returns the elements under folder carrying tag, sorted by name.
func (s *MemoryStore) ByTag(folder string, tag int) []*MonitorElement {
	folder = cleanFolder(folder)
	s.mu.RLock()
	defer s.mu.RUnlock()
	selected := make([]*MonitorElement, 0)
	for _, me := range s.elements {
		if inFolder(me.folder, folder) && me.HasTag(tag) {
			selected = append(selected, me)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].name < selected[j].name
	})
	return selected
}

// Elements lists the elements under folder sorted by path.
func (s *MemoryStore) Elements(folder string) []*MonitorElement {
	folder = cleanFolder(folder)
	s.mu.RLock()
	defer s.mu.RUnlock()
	selected := make([]*MonitorElement, 0, len(s.elements))
	for _, me := range s.elements {
		if inFolder(me.folder, folder) {
			selected = append(selected, me)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Path() < selected[j].Path()
	})
	return selected
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

func cleanFolder(folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return ""
	}
	return path.Clean(folder)
}

func inFolder(elementFolder string, folder string) bool {
	if folder == "" {
		return true
	}
	return elementFolder == folder || strings.HasPrefix(elementFolder, folder+"/")
}
