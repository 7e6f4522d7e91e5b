package dom

import (
	"context"
	"log/slog"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // register all browser cookie stores
)

// BrowserCookies reads the user's existing session cookies for host
// from installed browser stores, so application portals behind a login
// render their forms. A failed read is not an error; the page just
// loads unauthenticated.
func BrowserCookies(ctx context.Context, host string, logger *slog.Logger) map[string]string {
	if logger == nil {
		logger = slog.Default()
	}
	domain := strings.TrimPrefix(host, "www.")

	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil {
		logger.Debug("failed to read browser cookies", "domain", domain, "error", err)
		return nil
	}
	if len(kookies) == 0 {
		return nil
	}

	cookies := make(map[string]string, len(kookies))
	for _, c := range kookies {
		cookies[c.Name] = c.Value
	}
	logger.Debug("loaded browser cookies", "domain", domain, "count", len(cookies))
	return cookies
}
