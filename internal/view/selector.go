package view

import "fmt"

// Selector is the metric toggle state machine. The state is the selected
// layer-pair index; the only transition is a selection event. Selecting the
// current option is a no-op.
type Selector struct {
	options  int
	selected int
}

// NewSelector starts with option 0 selected.
func NewSelector(options int) Selector {
	return Selector{options: options}
}

// Select transitions to option i. An out-of-range option leaves the state
// unchanged and returns an error.
func (s Selector) Select(i int) (Selector, error) {
	if i < 0 || i >= s.options {
		return s, fmt.Errorf("select option %d: want 0..%d", i, s.options-1)
	}
	s.selected = i
	return s, nil
}

// Selected returns the selected option index.
func (s Selector) Selected() int { return s.selected }

// Options returns the number of options.
func (s Selector) Options() int { return s.options }

// Visibility returns one flag per trace. Each option owns two consecutive
// traces (map layer, bar layer); only the selected pair is visible.
func (s Selector) Visibility() []bool {
	return visibilityFor(s.selected, s.options)
}

func visibilityFor(selected, options int) []bool {
	vis := make([]bool, 2*options)
	if selected < 0 || selected >= options {
		return vis
	}
	vis[2*selected] = true
	vis[2*selected+1] = true
	return vis
}
