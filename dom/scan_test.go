package dom

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/formpilot/field"
	"github.com/codeGROOVE-dev/formpilot/label"
)

func scanMarkup(t *testing.T, markup string) *scanner {
	t.Helper()
	doc, err := label.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	s := &scanner{
		doc:       doc,
		selectors: make(map[string]target),
		radios:    make(map[string]int),
	}
	s.visit(doc.Root())
	return s
}

func TestScannerBasicForm(t *testing.T) {
	s := scanMarkup(t, `<form>
		<label for="fn">First Name</label>
		<input id="fn" type="text" name="first_name" placeholder="Your first name">
		<input type="hidden" name="csrf" value="tok">
		<input type="password" name="pass">
		<input type="submit" value="Apply">
		<label for="about">About You</label>
		<textarea id="about" name="about">existing text</textarea>
	</form>`)

	if len(s.fields) != 2 {
		t.Fatalf("fields = %d (%+v), want 2", len(s.fields), s.fields)
	}

	fn := s.fields[0]
	if fn.Kind != field.KindText || fn.Label != "first name" || fn.InputType != "text" {
		t.Errorf("first field = %+v", fn)
	}
	if fn.Placeholder != "your first name" || fn.Name != "first_name" || fn.DOMID != "fn" {
		t.Errorf("first field attributes = %+v", fn)
	}

	about := s.fields[1]
	if about.Kind != field.KindTextarea || about.Value != "existing text" {
		t.Errorf("textarea field = %+v", about)
	}
}

func TestScannerSelectOptions(t *testing.T) {
	s := scanMarkup(t, `<label for="g">Gender</label>
	<select id="g">
		<option value="">Select</option>
		<option value="m">Male</option>
		<option value="f">Female</option>
		<optgroup label="More"><option>Other</option></optgroup>
	</select>`)

	if len(s.fields) != 1 {
		t.Fatalf("fields = %d, want 1", len(s.fields))
	}
	got := s.fields[0]
	if got.Kind != field.KindSelect || got.Label != "gender" {
		t.Errorf("select field = %+v", got)
	}
	// Options without a value attribute fall back to their text.
	want := []field.Choice{
		{Text: "Select", Value: "Select"},
		{Text: "Male", Value: "m"},
		{Text: "Female", Value: "f"},
		{Text: "Other", Value: "Other"},
	}
	if diff := cmp.Diff(want, got.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerGroupsRadiosByName(t *testing.T) {
	s := scanMarkup(t, `<fieldset>
		<legend>Willing to relocate</legend>
		<label><input type="radio" name="reloc" value="yes"> Yes</label>
		<label><input type="radio" name="reloc" value="no"> No</label>
	</fieldset>
	<input type="radio" name="other" value="1">`)

	if len(s.fields) != 2 {
		t.Fatalf("fields = %d (%+v), want 2 groups", len(s.fields), s.fields)
	}

	group := s.fields[0]
	if group.Kind != field.KindRadioGroup || group.Label != "willing to relocate" {
		t.Errorf("radio group = %+v", group)
	}
	want := []field.Choice{
		{Text: "Yes", Value: "yes"},
		{Text: "No", Value: "no"},
	}
	if diff := cmp.Diff(want, group.Options); diff != "" {
		t.Errorf("radio options mismatch (-want +got):\n%s", diff)
	}
	if tgt := s.selectors[group.ID]; tgt.radioName != "reloc" {
		t.Errorf("radio target = %+v, want radioName reloc", tgt)
	}
}

func TestScannerCustomWidgets(t *testing.T) {
	s := scanMarkup(t, `<div class="form-group">
		<div class="title">Branch</div>
		<div role="combobox" aria-haspopup="listbox">Select branch</div>
	</div>
	<div class="form-group">
		<div class="title">Gender</div>
		<div role="radiogroup">
			<div role="radio" data-value="m">Male</div>
			<div role="radio" data-value="f">Female</div>
		</div>
	</div>`)

	if len(s.fields) != 2 {
		t.Fatalf("fields = %d (%+v), want 2", len(s.fields), s.fields)
	}

	dropdown := s.fields[0]
	if dropdown.Kind != field.KindCustomDropdown || dropdown.Label != "branch" {
		t.Errorf("custom dropdown = %+v", dropdown)
	}

	radios := s.fields[1]
	if radios.Kind != field.KindCustomRadio || radios.Label != "gender" {
		t.Errorf("custom radio group = %+v", radios)
	}
	want := []field.Choice{
		{Text: "Male", Value: "m"},
		{Text: "Female", Value: "f"},
	}
	if diff := cmp.Diff(want, radios.Options); diff != "" {
		t.Errorf("custom radio options mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerNativeRadiogroupRoleIsNotCustom(t *testing.T) {
	// A radiogroup role wrapping native radio inputs stays native.
	s := scanMarkup(t, `<div role="radiogroup">
		<input type="radio" name="r" value="a">
		<input type="radio" name="r" value="b">
	</div>`)
	if len(s.fields) != 1 || s.fields[0].Kind != field.KindRadioGroup {
		t.Fatalf("fields = %+v, want one native radio group", s.fields)
	}
}

func TestScannerSelectorsResolveFields(t *testing.T) {
	s := scanMarkup(t, `<div>
		<input id="email" type="email">
		<div><input type="text"></div>
	</div>`)

	if len(s.fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(s.fields))
	}
	if sel := s.selectors[s.fields[0].ID].selector; sel != "#email" {
		t.Errorf("id selector = %q, want #email", sel)
	}
	sel := s.selectors[s.fields[1].ID].selector
	if !strings.HasSuffix(sel, "input:nth-of-type(1)") || !strings.Contains(sel, " > ") {
		t.Errorf("path selector = %q", sel)
	}
}
