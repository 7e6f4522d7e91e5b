// Command formpilot fills web forms from a profile JSON file.
//
// Usage:
//
//	formpilot -profile me.json https://careers.example.com/apply
//	formpilot -profile me.json -confirm https://careers.example.com/apply
//	formpilot -clear-origin https://careers.example.com
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/formpilot"
	"github.com/codeGROOVE-dev/formpilot/dom"
	"github.com/codeGROOVE-dev/formpilot/learned"
)

func main() {
	profilePath := flag.String("profile", "", "path to profile JSON file")
	dbPath := flag.String("db", "", "store learned mappings in this sqlite file instead of the file cache")
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	noBrowserCookies := flag.Bool("no-browser-cookies", false, "do not reuse session cookies from installed browsers")
	confirm := flag.Bool("confirm", false, "interactively confirm medium-confidence suggestions")
	clearOrigin := flag.Bool("clear-origin", false, "forget learned mappings for the URL's origin and exit")
	settle := flag.Duration("settle", 300*time.Millisecond, "settle delay for custom widgets")
	remote := flag.String("remote", "", "attach to a running Chrome at this URL instead of launching one")
	noSandbox := flag.Bool("no-sandbox", false, "run Chrome without its sandbox (Docker/root)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: formpilot [options] <url>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	pageURL := flag.Arg(0)

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	store, err := openStore(*dbPath)
	if err != nil {
		logger.Error("failed to open learned-mapping store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	engine := formpilot.New(
		formpilot.WithLogger(logger),
		formpilot.WithStore(store),
		formpilot.WithSettleDelay(*settle),
	)

	ctx := context.Background()

	if *clearOrigin {
		origin := originOf(pageURL)
		if err := engine.ClearOrigin(ctx, origin); err != nil {
			logger.Error("failed to clear origin", "origin", origin, "error", err)
			os.Exit(1)
		}
		logger.Info("cleared learned mappings", "origin", origin)
		return
	}

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "formpilot: -profile is required")
		os.Exit(1)
	}
	data, err := os.ReadFile(*profilePath)
	if err != nil {
		logger.Error("failed to read profile", "path", *profilePath, "error", err)
		os.Exit(1)
	}
	prof, err := formpilot.LoadProfile(data)
	if err != nil {
		logger.Error("failed to parse profile", "path", *profilePath, "error", err)
		os.Exit(1)
	}

	browser, err := dom.NewBrowser(&dom.Config{
		RemoteURL: *remote,
		NoSandbox: *noSandbox,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to launch browser", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn("failed to close browser", "error", err)
		}
	}()

	var cookies map[string]string
	if !*noBrowserCookies {
		if u, err := url.Parse(pageURL); err == nil {
			cookies = dom.BrowserCookies(ctx, u.Hostname(), logger)
		}
	}

	page, err := browser.Open(ctx, pageURL, cookies)
	if err != nil {
		logger.Error("failed to open page", "url", pageURL, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Warn("failed to close page", "error", err)
		}
	}()

	fields, err := page.Scan(ctx)
	if err != nil {
		logger.Error("failed to scan page", "error", err)
		os.Exit(1)
	}
	logger.Info("scanned page", "url", pageURL, "fields", len(fields))

	origin := page.Origin()
	report := engine.Fill(ctx, page, fields, prof, origin)

	if *confirm && len(report.Pending) > 0 {
		resolutions := askConfirmations(report.Pending)
		if len(resolutions) > 0 {
			confirmed := engine.Confirm(ctx, page, fields, resolutions, prof, origin)
			logger.Info("confirmations applied", "count", confirmed.ConfirmedCount)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error("failed to encode report", "error", err)
		os.Exit(1)
	}
}

// openStore picks the learned-mapping backend: sqlite when -db is
// given, the file cache otherwise.
func openStore(dbPath string) (learned.Store, error) {
	if dbPath != "" {
		return learned.NewSQL(dbPath)
	}
	return learned.NewFile()
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

// askConfirmations walks the user through each pending suggestion on
// stdin.
func askConfirmations(pending []formpilot.Pending) []formpilot.Resolution {
	reader := bufio.NewReader(os.Stdin)
	var resolutions []formpilot.Resolution
	for _, p := range pending {
		fmt.Fprintf(os.Stderr, "Fill %q with %s = %q (confidence %.2f)? [y/N] ",
			p.Label, p.SuggestedKey, p.SuggestedValue, p.Confidence)
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			continue
		}
		resolutions = append(resolutions, formpilot.Resolution{
			FieldID:      p.FieldID,
			Label:        p.Label,
			AttributeKey: p.SuggestedKey,
			Kind:         p.Kind,
		})
	}
	return resolutions
}
