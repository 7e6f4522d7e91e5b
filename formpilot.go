// Package formpilot decides, for each interactive field found on a web
// page, whether and how to populate it from a structured user profile.
//
// Basic usage:
//
//	engine := formpilot.New(formpilot.WithStore(store))
//	report := engine.Fill(ctx, page, fields, prof, "https://careers.example.com")
//	for _, p := range report.Pending {
//	    // ask the user, then:
//	    engine.Confirm(ctx, page, fields, []formpilot.Resolution{{
//	        FieldID: p.FieldID, Label: p.Label, AttributeKey: p.SuggestedKey, Kind: p.Kind,
//	    }}, prof, origin)
//	}
//
// Fields route three ways: high-confidence matches fill immediately,
// medium-confidence matches queue for confirmation, and everything else
// is skipped with a reason. Confirmed fields are remembered per origin
// and replayed without re-scoring on later visits.
package formpilot

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/formpilot/catalog"
	"github.com/codeGROOVE-dev/formpilot/field"
	"github.com/codeGROOVE-dev/formpilot/fill"
	"github.com/codeGROOVE-dev/formpilot/learned"
	"github.com/codeGROOVE-dev/formpilot/match"
	"github.com/codeGROOVE-dev/formpilot/profile"
	"github.com/codeGROOVE-dev/formpilot/textnorm"
)

type (
	// Profile re-exports profile.Profile for convenience.
	Profile = profile.Profile
	// Store re-exports learned.Store for convenience.
	Store = learned.Store
)

// LoadProfile parses a profile JSON document.
func LoadProfile(data []byte) (*Profile, error) { return profile.Load(data) }

// Engine matches fields against the catalog and fills them.
type Engine struct {
	logger  *slog.Logger
	entries []catalog.Entry
	store   learned.Store
	settle  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCatalog replaces the built-in attribute catalog.
func WithCatalog(entries []catalog.Entry) Option {
	return func(e *Engine) { e.entries = entries }
}

// WithStore sets the learned-mapping store. Defaults to an in-memory
// store that forgets everything when the process exits.
func WithStore(store learned.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithSettleDelay overrides how long custom widgets get to re-render
// after opening.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) { e.settle = d }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:  slog.Default(),
		entries: catalog.Default(),
		store:   learned.NewMemory(),
		settle:  fill.DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FilledField records one successful fill.
type FilledField struct {
	Label        string           `json:"labelText"`
	AttributeKey string           `json:"attributeKey"`
	Confidence   float64          `json:"confidence"`
	Kind         field.WidgetKind `json:"widgetKind"`
}

// LearnedFill records a fill replayed from a learned mapping, without
// re-scoring.
type LearnedFill struct {
	Label        string           `json:"labelText"`
	AttributeKey string           `json:"attributeKey"`
	Kind         field.WidgetKind `json:"widgetKind"`
}

// Pending is a medium-confidence suggestion awaiting user confirmation.
// It lives for one scan/review cycle only.
type Pending struct {
	FieldID        string           `json:"fieldId"`
	Label          string           `json:"labelText"`
	SuggestedKey   string           `json:"suggestedKey"`
	SuggestedValue string           `json:"suggestedValue"`
	Confidence     float64          `json:"confidence"`
	Kind           field.WidgetKind `json:"widgetKind"`
}

// SkippedField records a field the engine declined to touch and why.
type SkippedField struct {
	Label  string           `json:"labelText"`
	Reason string           `json:"reason"`
	Kind   field.WidgetKind `json:"widgetKind"`
}

// Report is the aggregate result of one fill pass. FilledCount covers
// both scored and learned fills.
type Report struct {
	FilledCount  int            `json:"filledCount"`
	Filled       []FilledField  `json:"filled"`
	LearnedFills []LearnedFill  `json:"learnedFills"`
	Pending      []Pending      `json:"pending"`
	Skipped      []SkippedField `json:"skipped"`
}

// Fill runs one pass over the scanned fields. Fields are processed in
// discovery order, one at a time; no field's outcome depends on
// another's, and nothing here is fatal — the report is returned whole
// at the end.
func (e *Engine) Fill(ctx context.Context, page fill.Page, fields []field.Descriptor, prof *profile.Profile, origin string) *Report {
	exec := fill.NewExecutor(page, e.logger, e.settle)
	report := &Report{}

	for i := range fields {
		desc := &fields[i]
		e.fillOne(ctx, exec, desc, prof, origin, report)
	}

	e.logger.Info("fill pass complete",
		"origin", origin,
		"filled", report.FilledCount,
		"pending", len(report.Pending),
		"skipped", len(report.Skipped))
	return report
}

func (e *Engine) fillOne(ctx context.Context, exec *fill.Executor, desc *field.Descriptor, prof *profile.Profile, origin string, report *Report) {
	// Safety gate first: a deny-listed label is skipped no matter what
	// it would have scored.
	if match.Unsafe(desc.Label) {
		e.skip(report, desc, field.ReasonUnsafeLabel)
		return
	}

	// Learned mappings short-circuit scoring entirely.
	normLabel := textnorm.Normalize(desc.Label)
	if normLabel != "" {
		if key, ok := e.store.Lookup(ctx, origin, normLabel); ok {
			e.fillLearned(ctx, exec, desc, prof, key, report)
			return
		}
	}

	tokens := textnorm.TokenSet(desc.Text())
	best := match.Best(tokens, e.entries)
	switch {
	case best.Key == "":
		e.skip(report, desc, field.ReasonNoMatch)
		return
	case best.Score < match.Medium:
		e.skip(report, desc, field.ReasonLowConfidence)
		return
	}

	entry := catalog.ByKey(e.entries, best.Key)
	value, ok := prof.Value(entry.Path)
	if !ok {
		// Attribute identified, but the profile has nothing for it.
		e.skip(report, desc, field.ReasonEmptyValue)
		return
	}

	if best.Score < match.High {
		e.logger.Debug("queued for confirmation",
			"label", desc.Label, "key", best.Key, "confidence", best.Score)
		report.Pending = append(report.Pending, Pending{
			FieldID:        desc.ID,
			Label:          desc.Label,
			SuggestedKey:   best.Key,
			SuggestedValue: value,
			Confidence:     best.Score,
			Kind:           desc.Kind,
		})
		return
	}

	if reason := exec.Apply(ctx, desc, value, entry); reason != "" {
		e.skip(report, desc, reason)
		return
	}
	e.logger.Debug("filled", "label", desc.Label, "key", best.Key, "confidence", best.Score)
	report.FilledCount++
	report.Filled = append(report.Filled, FilledField{
		Label:        desc.Label,
		AttributeKey: best.Key,
		Confidence:   best.Score,
		Kind:         desc.Kind,
	})
}

func (e *Engine) fillLearned(ctx context.Context, exec *fill.Executor, desc *field.Descriptor, prof *profile.Profile, key string, report *Report) {
	entry := catalog.ByKey(e.entries, key)
	if entry == nil {
		// The learned key has left the catalog; nothing to resolve.
		e.skip(report, desc, field.ReasonNoMatch)
		return
	}
	value, ok := prof.Value(entry.Path)
	if !ok {
		e.skip(report, desc, field.ReasonEmptyValue)
		return
	}
	if reason := exec.Apply(ctx, desc, value, entry); reason != "" {
		e.skip(report, desc, reason)
		return
	}
	e.logger.Debug("filled from learned mapping", "label", desc.Label, "key", key)
	report.FilledCount++
	report.LearnedFills = append(report.LearnedFills, LearnedFill{
		Label:        desc.Label,
		AttributeKey: key,
		Kind:         desc.Kind,
	})
}

func (e *Engine) skip(report *Report, desc *field.Descriptor, reason string) {
	e.logger.Debug("skipped", "label", desc.Label, "reason", reason)
	report.Skipped = append(report.Skipped, SkippedField{
		Label:  desc.Label,
		Reason: reason,
		Kind:   desc.Kind,
	})
}

// Resolution is the user's answer to one Pending suggestion.
type Resolution struct {
	FieldID      string           `json:"fieldId"`
	Label        string           `json:"labelText"`
	AttributeKey string           `json:"attributeKey"`
	Kind         field.WidgetKind `json:"widgetKind"`
}

// ConfirmedField records one applied confirmation.
type ConfirmedField struct {
	FieldID      string `json:"fieldId"`
	AttributeKey string `json:"attributeKey"`
	Value        string `json:"value"`
}

// ConfirmReport is the result of a confirmation-resolution pass.
type ConfirmReport struct {
	ConfirmedCount int              `json:"confirmedCount"`
	Confirmed      []ConfirmedField `json:"confirmed"`
}

// Confirm applies user-resolved confirmations and records each one in
// the learned-mapping store, so identical labels at this origin skip
// scoring on future passes. fields must come from the same scan that
// produced the pending suggestions.
func (e *Engine) Confirm(ctx context.Context, page fill.Page, fields []field.Descriptor, resolutions []Resolution, prof *profile.Profile, origin string) *ConfirmReport {
	exec := fill.NewExecutor(page, e.logger, e.settle)
	report := &ConfirmReport{}

	byID := make(map[string]*field.Descriptor, len(fields))
	for i := range fields {
		byID[fields[i].ID] = &fields[i]
	}

	for _, res := range resolutions {
		desc, ok := byID[res.FieldID]
		if !ok {
			e.logger.Debug("confirmation for unknown field", "field", res.FieldID)
			continue
		}

		// The user vouched for this mapping; remember it regardless of
		// whether the fill itself succeeds.
		if normLabel := textnorm.Normalize(res.Label); normLabel != "" {
			if err := e.store.Save(ctx, origin, normLabel, res.AttributeKey); err != nil {
				e.logger.Warn("failed to save learned mapping",
					"origin", origin, "label", normLabel, "error", err)
			}
		}

		var value string
		entry := catalog.ByKey(e.entries, res.AttributeKey)
		if entry != nil {
			if v, ok := prof.Value(entry.Path); ok {
				value = v
				if reason := exec.Apply(ctx, desc, value, entry); reason != "" {
					e.logger.Debug("confirmed fill skipped",
						"label", res.Label, "reason", reason)
				}
			}
		}

		report.ConfirmedCount++
		report.Confirmed = append(report.Confirmed, ConfirmedField{
			FieldID:      res.FieldID,
			AttributeKey: res.AttributeKey,
			Value:        value,
		})
	}
	return report
}

// ClearOrigin forgets every learned mapping for an origin.
func (e *Engine) ClearOrigin(ctx context.Context, origin string) error {
	return e.store.Clear(ctx, origin)
}
