// Package fill applies resolved profile values to page controls, with
// one strategy per widget kind.
package fill

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/formpilot/catalog"
	"github.com/codeGROOVE-dev/formpilot/choice"
	"github.com/codeGROOVE-dev/formpilot/field"
)

// Page is the per-scan binding between field descriptors and the live
// page. The engine owns no page state itself; the caller supplies a
// Page per scan, which keeps the pipeline testable against synthetic
// field sets with no real page behind them.
type Page interface {
	// SetValue assigns a value to a free-text control and signals
	// input/change notifications so host-page listeners observe it.
	SetValue(ctx context.Context, fieldID, value string) error
	// SelectOption applies an option to a native select or radio
	// control, toggling state only if not already selected.
	SelectOption(ctx context.Context, fieldID string, opt field.Choice) error
	// OpenWidget opens a custom dropdown or radio widget.
	OpenWidget(ctx context.Context, fieldID string) error
	// WidgetOptions scans the currently rendered options of an open
	// custom widget.
	WidgetOptions(ctx context.Context, fieldID string) ([]field.Choice, error)
	// PickOption invokes the select action on a rendered option.
	PickOption(ctx context.Context, fieldID string, opt field.Choice) error
	// DismissWidget closes an open custom widget without selecting,
	// so it is not left in a partially-interacted state.
	DismissWidget(ctx context.Context, fieldID string) error
}

// DefaultSettleDelay is how long a custom widget gets to re-render
// after opening before its options are scanned.
const DefaultSettleDelay = 300 * time.Millisecond

// Executor applies values using the strategy matching each field's
// widget kind.
type Executor struct {
	page   Page
	logger *slog.Logger
	settle time.Duration
}

// NewExecutor creates an executor bound to one scanned page. A zero
// settle falls back to DefaultSettleDelay.
func NewExecutor(page Page, logger *slog.Logger, settle time.Duration) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Executor{page: page, logger: logger, settle: settle}
}

// Apply fills desc with value. entry is the catalog entry the value was
// resolved through and may be nil for learned fills whose key has left
// the catalog. Returns "" on success or a skip reason; one field's
// failure never propagates as an error.
func (e *Executor) Apply(ctx context.Context, desc *field.Descriptor, value string, entry *catalog.Entry) string {
	switch desc.Kind {
	case field.KindText, field.KindTextarea:
		return e.applyText(ctx, desc, value, entry)
	case field.KindSelect, field.KindRadioGroup:
		return e.applyNative(ctx, desc, value, entry)
	case field.KindCustomDropdown, field.KindCustomRadio:
		return e.applyCustom(ctx, desc, value, entry)
	default:
		return field.ReasonNoMatch
	}
}

func (e *Executor) applyText(ctx context.Context, desc *field.Descriptor, value string, entry *catalog.Entry) string {
	// A non-empty value means the user already filled this control.
	// Closed-choice controls are exempt: their default rendered state
	// does not imply deliberate choice.
	if strings.TrimSpace(desc.Value) != "" {
		return field.ReasonAlreadyFilled
	}

	v := value
	if (entry != nil && entry.ExpectsDate) || desc.InputType == "date" {
		if canonical, ok := CanonicalDate(value); ok {
			v = canonical
		}
	}
	if entry != nil && entry.ExpectsNumeric && desc.Numeric() && !numericValue(v) {
		return field.ReasonNumericMismatch
	}

	if err := e.page.SetValue(ctx, desc.ID, v); err != nil {
		e.logger.Debug("set value failed", "field", desc.ID, "error", err)
		return field.ReasonFillFailed
	}
	return ""
}

func (e *Executor) applyNative(ctx context.Context, desc *field.Descriptor, value string, entry *catalog.Entry) string {
	opt, ok := choice.Resolve(value, desc.Options, aliases(entry))
	if !ok {
		return field.ReasonNoOption
	}
	if err := e.page.SelectOption(ctx, desc.ID, opt); err != nil {
		e.logger.Debug("select option failed", "field", desc.ID, "error", err)
		return field.ReasonFillFailed
	}
	return ""
}

func (e *Executor) applyCustom(ctx context.Context, desc *field.Descriptor, value string, entry *catalog.Entry) string {
	if err := e.page.OpenWidget(ctx, desc.ID); err != nil {
		e.logger.Debug("open widget failed", "field", desc.ID, "error", err)
		return field.ReasonFillFailed
	}

	// Fixed settle interval for asynchronous re-render. Bounded wait,
	// no retry: one failed attempt is a skip.
	select {
	case <-ctx.Done():
		e.dismiss(ctx, desc.ID)
		return field.ReasonFillFailed
	case <-time.After(e.settle):
	}

	opts, err := e.page.WidgetOptions(ctx, desc.ID)
	if err != nil {
		e.logger.Debug("scan widget options failed", "field", desc.ID, "error", err)
		e.dismiss(ctx, desc.ID)
		return field.ReasonFillFailed
	}

	opt, ok := choice.Resolve(value, opts, aliases(entry))
	if !ok {
		e.dismiss(ctx, desc.ID)
		return field.ReasonNoOption
	}
	if err := e.page.PickOption(ctx, desc.ID, opt); err != nil {
		e.logger.Debug("pick option failed", "field", desc.ID, "error", err)
		e.dismiss(ctx, desc.ID)
		return field.ReasonFillFailed
	}
	return ""
}

func (e *Executor) dismiss(ctx context.Context, fieldID string) {
	if err := e.page.DismissWidget(ctx, fieldID); err != nil {
		e.logger.Debug("dismiss widget failed", "field", fieldID, "error", err)
	}
}

func aliases(entry *catalog.Entry) map[string][]string {
	if entry == nil {
		return nil
	}
	return entry.OptionAliases
}

// dateLayouts are tried in order; day-first forms lead because that is
// how the source forms write dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// CanonicalDate formats a recognizable date string as YYYY-MM-DD. The
// second return is false when no layout matches; callers pass the value
// through unchanged in that case.
func CanonicalDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// numericValue reports whether v parses as a number once phone-style
// punctuation is stripped.
func numericValue(v string) bool {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '+':
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(v))
	if cleaned == "" {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}
