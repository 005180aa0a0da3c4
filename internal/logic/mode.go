package logic

import "fmt"

// View is a display layout: which two fields occupy the left and right digit
// groups.
type View int

const (
	ViewHourMin View = iota
	ViewMinSec
)

func (v View) String() string {
	switch v {
	case ViewHourMin:
		return "HOUR_MIN"
	case ViewMinSec:
		return "MIN_SEC"
	}
	return "UNKNOWN"
}

// Fields returns the left and right fields shown by the view.
func (v View) Fields() (left, right Field) {
	if v == ViewHourMin {
		return FieldHours, FieldMinutes
	}
	return FieldMinutes, FieldSeconds
}

// ParseView parses a view name as used in configuration ("hour_min", "min_sec").
func ParseView(s string) (View, error) {
	switch s {
	case "hour_min", "HOUR_MIN":
		return ViewHourMin, nil
	case "min_sec", "MIN_SEC":
		return ViewMinSec, nil
	}
	return 0, fmt.Errorf("unknown view %q", s)
}

// EditStep says which side of the view is being edited, if any.
type EditStep int

const (
	EditNone EditStep = iota
	EditLeft
	EditRight
)

// Mode is the state of the clock. A display mode has Edit == EditNone.
// An edit mode keeps the View it was entered from, which is also the view
// it returns to, so "edit minutes" entered from HOUR_MIN and from MIN_SEC
// are distinct states.
type Mode struct {
	View View
	Edit EditStep
}

// Editing reports whether the mode is an edit mode.
func (m Mode) Editing() bool {
	return m.Edit != EditNone
}

// EditField returns the field under edit. ok is false in display modes.
func (m Mode) EditField() (f Field, ok bool) {
	left, right := m.View.Fields()
	switch m.Edit {
	case EditLeft:
		return left, true
	case EditRight:
		return right, true
	}
	return 0, false
}

// next returns the mode following m in the edit chain:
// display -> edit left -> edit right -> display.
func (m Mode) next() Mode {
	switch m.Edit {
	case EditNone:
		return Mode{View: m.View, Edit: EditLeft}
	case EditLeft:
		return Mode{View: m.View, Edit: EditRight}
	}
	return Mode{View: m.View}
}

// String names the mode, e.g. DISPLAY_HOUR_MIN, EDIT_HOURS, EDIT_MINUTES@MIN_SEC.
func (m Mode) String() string {
	f, ok := m.EditField()
	if !ok {
		return "DISPLAY_" + m.View.String()
	}
	if f == FieldMinutes {
		return "EDIT_MINUTES@" + m.View.String()
	}
	return "EDIT_" + f.String()
}
