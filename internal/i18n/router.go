package i18n

import (
	"net/http"
	"strings"
)

// Router resolves the locale prefix every URL in the portal carries.
//
// Resolution rules:
//   - "/" redirects to the default locale root.
//   - A supported leading segment ("/en/events") is stripped into the
//     request context before the inner handler runs.
//   - A two-letter leading segment that is not supported is a 404, never a
//     silent fallback.
//   - Any other unprefixed path redirects to its default-locale form.
type Router struct {
	Locales []string
	Default string
}

// NewRouter returns a Router over the package's supported locale set.
func NewRouter() *Router {
	return &Router{Locales: Locales, Default: DefaultLocale}
}

// Supported reports whether code is in the router's locale set.
func (rt *Router) Supported(code string) bool {
	for _, l := range rt.Locales {
		if l == code {
			return true
		}
	}
	return false
}

// Path prefixes p with the given locale. p must start with "/".
// An already-prefixed path is returned unchanged so prefixes never double up.
func (rt *Router) Path(locale, p string) string {
	if !rt.Supported(locale) {
		locale = rt.Default
	}
	if p == "" || p == "/" {
		return "/" + locale
	}
	if seg, _ := splitLocale(p); rt.Supported(seg) {
		return p
	}
	return "/" + locale + p
}

// RequestPath builds a locale-prefixed path using the locale of the request.
func (rt *Router) RequestPath(r *http.Request, p string) string {
	return rt.Path(LocaleFromContext(r.Context()), p)
}

// Redirect issues a locale-aware redirect to p, preserving the active locale.
func (rt *Router) Redirect(w http.ResponseWriter, r *http.Request, p string) {
	http.Redirect(w, r, rt.RequestPath(r, p), http.StatusSeeOther)
}

// Middleware applies the resolution rules above, rewriting the request path
// to its unprefixed form so routes are registered once, without locales.
func (rt *Router) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p == "" || p == "/" {
			http.Redirect(w, r, "/"+rt.Default, http.StatusFound)
			return
		}
		seg, rest := splitLocale(p)
		if rt.Supported(seg) {
			r2 := r.Clone(WithLocale(r.Context(), seg))
			r2.URL.Path = rest
			next.ServeHTTP(w, r2)
			return
		}
		if looksLikeLocale(seg) {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, rt.Path(rt.Default, p), http.StatusFound)
	})
}

// splitLocale splits "/it/events" into ("it", "/events").
func splitLocale(p string) (seg, rest string) {
	trimmed := strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i:]
	}
	return trimmed, "/"
}

// looksLikeLocale reports whether seg has the shape of a locale code.
func looksLikeLocale(seg string) bool {
	if len(seg) != 2 {
		return false
	}
	for _, c := range seg {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
