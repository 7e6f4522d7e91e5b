// Package dom drives a real browser page for the autofill engine. It
// scans a page into field descriptors and implements fill.Page on top
// of the Chrome DevTools Protocol.
//
// The engine itself never sees a browser: everything passes through
// field descriptors and the fill.Page interface, so dom stays at the
// edge and the engine remains testable with synthetic field sets.
package dom

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/codeGROOVE-dev/retry"

	"github.com/codeGROOVE-dev/formpilot/field"
	"github.com/codeGROOVE-dev/formpilot/fill"
)

const defaultNavigateTimeout = 30 * time.Second

// Config holds browser settings.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Config struct {
	// RemoteURL points at an already-running Chrome instance. When
	// empty, a new headless browser is launched.
	RemoteURL string
	// NoSandbox runs Chrome without its sandbox (needed under Docker
	// or when running as root).
	NoSandbox bool
	// Logger for debug output.
	Logger *slog.Logger
}

// Browser owns a Chrome allocator shared by its pages.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      *slog.Logger
}

// NewBrowser launches (or attaches to) a browser.
func NewBrowser(cfg *Config) (*Browser, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Browser{logger: logger}
	if cfg.RemoteURL != "" {
		b.allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return b, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return b, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

// Page is one open browser tab, bound to the selectors of its last
// scan. It implements fill.Page.
type Page struct {
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *slog.Logger
	pageURL   string
	selectors map[string]target // field ID -> live-page locator
}

// target locates one scanned control on the live page.
type target struct {
	selector  string // CSS selector for the control or group container
	radioName string // name attribute for native radio groups
}

// Open navigates a new tab to rawURL. Cookies, when non-nil, are set
// for the page's domain before navigating so authenticated portals
// render their forms.
func (b *Browser) Open(ctx context.Context, rawURL string, cookies map[string]string) (*Page, error) {
	tabCtx, cancel := chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		b.logger.Debug(fmt.Sprintf(format, args...))
	}))

	p := &Page{
		ctx:     tabCtx,
		cancel:  cancel,
		logger:  b.logger,
		pageURL: rawURL,
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("parse url: %w", err)
	}

	var actions []chromedp.Action
	if len(cookies) > 0 {
		actions = append(actions, setCookieAction(u.Hostname(), cookies))
	}
	actions = append(actions, chromedp.Navigate(rawURL))

	// Navigation is the one transient step worth retrying: a fresh
	// headless browser can refuse the first connection.
	err = retry.Do(
		func() error {
			navCtx, navCancel := context.WithTimeout(tabCtx, defaultNavigateTimeout)
			defer navCancel()
			return chromedp.Run(navCtx, actions...)
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(500*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			b.logger.Debug("retrying navigation", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	return p, nil
}

// Origin returns the scheme://host identity used to scope learned
// mappings.
func (p *Page) Origin() string {
	u, err := url.Parse(p.pageURL)
	if err != nil {
		return p.pageURL
	}
	return u.Scheme + "://" + u.Host
}

// Close releases the tab.
func (p *Page) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

func setCookieAction(host string, cookies map[string]string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for name, value := range cookies {
			err := network.SetCookie(name, value).
				WithDomain(host).
				WithPath("/").
				Do(ctx)
			if err != nil {
				return fmt.Errorf("set cookie %s: %w", name, err)
			}
		}
		return nil
	})
}

// SetValue implements fill.Page for free-text controls: assign the
// value, then dispatch input/change/blur so page listeners notice.
func (p *Page) SetValue(ctx context.Context, fieldID, value string) error {
	t, err := p.target(fieldID)
	if err != nil {
		return err
	}
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		el.value = %s;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		el.dispatchEvent(new Event('blur', {bubbles: true}));
		return true;
	})()`, jsString(t.selector), jsString(value))
	return p.eval(ctx, js)
}

// SelectOption implements fill.Page for native select and radio
// controls. Already-selected options are left alone so no spurious
// change events fire.
func (p *Page) SelectOption(ctx context.Context, fieldID string, opt field.Choice) error {
	t, err := p.target(fieldID)
	if err != nil {
		return err
	}

	if t.radioName != "" {
		js := fmt.Sprintf(`(() => {
			const radios = document.querySelectorAll('input[type="radio"][name=' + CSS.escape(%s) + ']');
			for (const r of radios) {
				const label = r.labels && r.labels.length ? r.labels[0].textContent.trim() : '';
				if (r.value === %s || label === %s) {
					if (!r.checked) r.click();
					return true;
				}
			}
			return false;
		})()`, jsString(t.radioName), jsString(opt.Value), jsString(opt.Text))
		return p.eval(ctx, js)
	}

	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return false;
		for (const o of el.options) {
			if (o.value === %s || o.textContent.trim() === %s) {
				if (el.value !== o.value || !o.selected) {
					el.value = o.value;
					el.dispatchEvent(new Event('input', {bubbles: true}));
					el.dispatchEvent(new Event('change', {bubbles: true}));
				}
				return true;
			}
		}
		return false;
	})()`, jsString(t.selector), jsString(opt.Value), jsString(opt.Text))
	return p.eval(ctx, js)
}

// OpenWidget implements fill.Page: click a custom widget open.
func (p *Page) OpenWidget(ctx context.Context, fieldID string) error {
	t, err := p.target(fieldID)
	if err != nil {
		return err
	}
	return p.run(ctx, chromedp.Click(t.selector, chromedp.ByQuery))
}

// WidgetOptions implements fill.Page: scan the options a custom widget
// rendered after opening.
func (p *Page) WidgetOptions(ctx context.Context, _ string) ([]field.Choice, error) {
	const js = `Array.from(document.querySelectorAll(
		'[role="option"], [role="listbox"] li, [role="radio"], .dropdown-menu li'
	)).map(el => ({
		text: el.textContent.trim(),
		value: el.getAttribute('data-value') || el.getAttribute('value') || ''
	}))`

	var raw []struct {
		Text  string `json:"text"`
		Value string `json:"value"`
	}
	runCtx, runCancel := context.WithTimeout(p.ctx, defaultNavigateTimeout)
	defer runCancel()
	if err := contextRun(ctx, runCtx, chromedp.Evaluate(js, &raw)); err != nil {
		return nil, fmt.Errorf("scan widget options: %w", err)
	}

	opts := make([]field.Choice, 0, len(raw))
	for _, r := range raw {
		if r.Text == "" && r.Value == "" {
			continue
		}
		opts = append(opts, field.Choice{Text: r.Text, Value: r.Value})
	}
	return opts, nil
}

// PickOption implements fill.Page: click the rendered option whose text
// matches.
func (p *Page) PickOption(ctx context.Context, _ string, opt field.Choice) error {
	js := fmt.Sprintf(`(() => {
		const els = document.querySelectorAll(
			'[role="option"], [role="listbox"] li, [role="radio"], .dropdown-menu li');
		for (const el of els) {
			if (el.textContent.trim() === %s ||
				(el.getAttribute('data-value') || '') === %s && %s !== '') {
				el.click();
				return true;
			}
		}
		return false;
	})()`, jsString(opt.Text), jsString(opt.Value), jsString(opt.Value))
	return p.eval(ctx, js)
}

// DismissWidget implements fill.Page: close an open widget without
// selecting, via Escape.
func (p *Page) DismissWidget(ctx context.Context, _ string) error {
	return p.run(ctx, chromedp.KeyEvent(kb.Escape))
}

// jsString renders s as a JavaScript string literal. JSON string syntax
// is a subset of JS; Go's %q is not (it emits \U escapes for runes
// outside the basic plane, which JS rejects).
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshaling a string cannot fail; keep the contract total.
		return `""`
	}
	return string(b)
}

func (p *Page) target(fieldID string) (target, error) {
	t, ok := p.selectors[fieldID]
	if !ok {
		return target{}, fmt.Errorf("%w: %s", field.ErrNotAttached, fieldID)
	}
	return t, nil
}

func (p *Page) eval(ctx context.Context, js string) error {
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return field.ErrNotAttached
	}
	return nil
}

func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, defaultNavigateTimeout)
	defer cancel()
	return contextRun(ctx, runCtx, actions...)
}

// contextRun executes actions on the tab context while honoring the
// caller's context for cancellation.
func contextRun(callerCtx, tabCtx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(tabCtx, actions...) }()
	select {
	case <-callerCtx.Done():
		return callerCtx.Err()
	case err := <-done:
		return err
	}
}

var _ fill.Page = (*Page)(nil)
