// Package arrange defines the sectional structure of a performance and maps
// a running bar counter onto it.
package arrange

import (
	"errors"
	"fmt"
	"sort"

	"github.com/davidgilbertson/beatparakeet/internal/pattern"
)

// Section is a contiguous span of bars sharing intensity weights and
// pattern selections. A role absent from both maps is silent for the span.
type Section struct {
	Name       string
	LengthBars int

	// Intensity weighs how strongly each role expresses, 0-1 nominal but
	// may exceed 1 for emphasis.
	Intensity map[pattern.Role]float64
	// Patterns names the table each role plays during the section.
	Patterns map[pattern.Role]string
	// SparkleProb gates ornament events: each fires only when a uniform
	// draw lands below this probability.
	SparkleProb float64
}

// Arrangement is an ordered sequence of sections. Bar boundaries are
// precomputed once so lookups are a binary search.
type Arrangement struct {
	sections []Section
	starts   []int64 // starts[i] = first bar of section i
	total    int64
}

func New(sections ...Section) (*Arrangement, error) {
	if len(sections) == 0 {
		return nil, errors.New("arrangement needs at least one section")
	}
	a := &Arrangement{
		sections: sections,
		starts:   make([]int64, len(sections)),
	}
	var at int64
	for i, sec := range sections {
		if sec.LengthBars <= 0 {
			return nil, fmt.Errorf("section %q: length must be positive, got %d", sec.Name, sec.LengthBars)
		}
		a.starts[i] = at
		at += int64(sec.LengthBars)
	}
	a.total = at
	return a, nil
}

func (a *Arrangement) TotalBars() int64 {
	return a.total
}

func (a *Arrangement) NumSections() int {
	return len(a.sections)
}

func (a *Arrangement) Section(i int) Section {
	return a.sections[i]
}

// Position locates a bar within the arrangement.
type Position struct {
	Index        int
	Section      Section
	Offset       int
	SectionStart bool
}

// Resolve maps a bar in [0, TotalBars) to its section. Bars outside the
// range are clamped; mode handling (wrap or fade) belongs to Timeline.
func (a *Arrangement) Resolve(bar int64) Position {
	if bar < 0 {
		bar = 0
	}
	if bar >= a.total {
		bar = a.total - 1
	}
	// First section whose start is strictly beyond bar, minus one.
	i := sort.Search(len(a.starts), func(i int) bool { return a.starts[i] > bar }) - 1
	off := int(bar - a.starts[i])
	return Position{
		Index:        i,
		Section:      a.sections[i],
		Offset:       off,
		SectionStart: off == 0,
	}
}
