// Package field defines the common types shared by the autofill engine.
package field

import "errors"

// Common errors returned by engine packages.
var (
	ErrNoMatch     = errors.New("no matching option")
	ErrEmptyValue  = errors.New("profile value is empty")
	ErrNotAttached = errors.New("field is not attached to a page")
)

// WidgetKind identifies the interaction model a field exposes.
type WidgetKind string

// Widget kinds. Native kinds accept direct value assignment or option
// selection; custom kinds need a pointer-driven open/select interaction.
const (
	KindText           WidgetKind = "text"
	KindTextarea       WidgetKind = "textarea"
	KindSelect         WidgetKind = "select"
	KindRadioGroup     WidgetKind = "radio-group"
	KindCustomDropdown WidgetKind = "custom-dropdown"
	KindCustomRadio    WidgetKind = "custom-radio-group"
)

// Closed reports whether the kind offers a closed option set rather than
// free-form input.
func (k WidgetKind) Closed() bool {
	switch k {
	case KindSelect, KindRadioGroup, KindCustomDropdown, KindCustomRadio:
		return true
	default:
		return false
	}
}

// Custom reports whether the kind requires simulated pointer interaction
// instead of direct value assignment.
func (k WidgetKind) Custom() bool {
	return k == KindCustomDropdown || k == KindCustomRadio
}

// Choice is one selectable option of a closed-choice field.
type Choice struct {
	Text  string // rendered option text
	Value string // underlying value attribute, if any
}

// Descriptor describes one interactive field discovered on a page.
// Descriptors are ephemeral: built per scan, never persisted, and never
// carry a profile value.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Descriptor struct {
	ID          string // per-scan identifier assigned by the scanner
	Label       string // extracted label text, lower-cased and trimmed
	Placeholder string
	Name        string // name attribute
	DOMID       string // id attribute
	Kind        WidgetKind
	InputType   string   // type attribute for text-like controls ("text", "number", "tel", "date", ...)
	Value       string   // current value at scan time, used for user-filled detection
	Options     []Choice // rendered options for closed-choice fields
}

// Text joins the descriptor's textual signals in priority order for
// scoring. The label leads; placeholder, name and id supplement it so
// unlabeled fields still have something to match on.
func (d *Descriptor) Text() string {
	out := d.Label
	if d.Placeholder != "" {
		out += " " + d.Placeholder
	}
	if d.Name != "" {
		out += " " + d.Name
	}
	if d.DOMID != "" {
		out += " " + d.DOMID
	}
	return out
}

// Numeric reports whether the underlying control only accepts numeric
// input. Used by the numeric-mismatch refusal: a textual value may go
// into a plain text control but never into a number or tel control.
func (d *Descriptor) Numeric() bool {
	return d.InputType == "number" || d.InputType == "tel"
}

// Skip reasons reported in fill pass results.
const (
	ReasonUnsafeLabel     = "unsafe label"
	ReasonLowConfidence   = "low confidence"
	ReasonNoMatch         = "no match"
	ReasonNumericMismatch = "numeric mismatch"
	ReasonEmptyValue      = "empty value"
	ReasonAlreadyFilled   = "already filled"
	ReasonNoOption        = "no matching option"
	ReasonFillFailed      = "fill failed"
)
