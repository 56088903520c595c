package types

import "fmt"

// Window is an inclusive range of days.
type Window struct {
	Start Date `json:"start" example:"2024-02-01"`
	End   Date `json:"end" example:"2024-02-29"`
}

// NewWindow returns the window from start to end, both inclusive.
func NewWindow(start, end Date) Window {
	return Window{Start: start, End: end}
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s]", w.Start, w.End)
}

// IsEmpty reports whether the window contains no days.
func (w Window) IsEmpty() bool {
	return w.End.Before(w.Start)
}

// Contains reports whether d lies inside the window.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Overlaps reports whether the windows share at least one day,
// i.e. w.Start <= o.End and w.End >= o.Start.
func (w Window) Overlaps(o Window) bool {
	return !w.Start.After(o.End) && !w.End.Before(o.Start)
}

// Clip returns the intersection of w and o. Each bound is the tighter
// of the two. ok is false if the windows don't overlap.
func (w Window) Clip(o Window) (clipped Window, ok bool) {
	clipped = w
	if o.Start.After(clipped.Start) {
		clipped.Start = o.Start
	}

	if o.End.Before(clipped.End) {
		clipped.End = o.End
	}

	return clipped, !clipped.IsEmpty()
}
