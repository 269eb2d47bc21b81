package app

import (
	"fmt"

	"github.com/banshee-data/trackbot/internal/config"
)

// ParameterSet is one selectable driving profile: PID gains as rational
// numerator/denominator pairs plus the top speed cap. A set is loaded
// into the controller once at driving entry and is immutable during the
// run.
type ParameterSet struct {
	Name     string
	TopSpeed int16 // steps/s

	KPNum, KPDen int16
	KINum, KIDen int16
	KDNum, KDDen int16
}

// ParameterSets holds the closed list of driving profiles and the
// current selection.
type ParameterSets struct {
	sets    []ParameterSet
	current int
}

// DefaultParameterSets returns the built-in profiles. Gains are tuned
// per sample (10 ms PID period) against the position error range of
// roughly ±2000.
func DefaultParameterSets() *ParameterSets {
	return &ParameterSets{
		sets: []ParameterSet{
			{
				Name:     "easy",
				TopSpeed: 1200,
				KPNum:    1, KPDen: 6,
				KINum: 0, KIDen: 1,
				KDNum: 1, KDDen: 10,
			},
			{
				Name:     "medium",
				TopSpeed: 1600,
				KPNum:    1, KPDen: 5,
				KINum: 1, KIDen: 2000,
				KDNum: 3, KDDen: 20,
			},
			{
				Name:     "fast",
				TopSpeed: 2000,
				KPNum:    1, KPDen: 4,
				KINum: 1, KIDen: 1500,
				KDNum: 1, KDDen: 5,
			},
		},
	}
}

// Current returns the selected parameter set.
func (p *ParameterSets) Current() ParameterSet {
	return p.sets[p.current]
}

// Next cycles to the following set and returns it.
func (p *ParameterSets) Next() ParameterSet {
	p.current = (p.current + 1) % len(p.sets)
	return p.sets[p.current]
}

// Select switches to the named set.
func (p *ParameterSets) Select(name string) error {
	for i, set := range p.sets {
		if set.Name == name {
			p.current = i
			return nil
		}
	}
	return fmt.Errorf("unknown parameter set %q", name)
}

// Names returns the set names in cycle order.
func (p *ParameterSets) Names() []string {
	names := make([]string, len(p.sets))
	for i, set := range p.sets {
		names[i] = set.Name
	}
	return names
}

// ApplyTuning merges tuning-file overrides into the named sets. Unknown
// set names are an error so typos in the file do not silently tune
// nothing.
func (p *ParameterSets) ApplyTuning(overrides map[string]config.ParameterSetTuning) error {
	for name, o := range overrides {
		idx := -1
		for i, set := range p.sets {
			if set.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("tuning refers to unknown parameter set %q", name)
		}

		set := &p.sets[idx]
		if o.TopSpeed != nil {
			set.TopSpeed = *o.TopSpeed
		}
		if o.KPNum != nil {
			set.KPNum = *o.KPNum
		}
		if o.KPDen != nil {
			set.KPDen = *o.KPDen
		}
		if o.KINum != nil {
			set.KINum = *o.KINum
		}
		if o.KIDen != nil {
			set.KIDen = *o.KIDen
		}
		if o.KDNum != nil {
			set.KDNum = *o.KDNum
		}
		if o.KDDen != nil {
			set.KDDen = *o.KDDen
		}
	}
	return nil
}
