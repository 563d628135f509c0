// Package view renders html/template pages with a shared layout and the
// portal's template helpers. Templates live under templates/ next to the
// binary; parsed templates are cached outside dev mode.
package view

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/i18n"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	// isAdminResolver is set by the host app so templates can show or hide
	// admin navigation without importing the authorization package here.
	isAdminResolver func(*http.Request) bool
)

// SetIsAdminResolver sets the callback templates use for the isAdmin helper.
func SetIsAdminResolver(f func(*http.Request) bool) {
	if f != nil {
		isAdminResolver = f
	}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// SetBaseDir overrides the template base directory (useful for tests).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// Funcs returns the template func map for a request: i18n lookup, the active
// locale, locale-prefixed link building and admin visibility.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.LocaleFromContext(r.Context())
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		// href prefixes an internal path with the active locale so links
		// never drop or duplicate the prefix.
		"href": func(p string) string {
			if p == "" || p == "/" {
				return "/" + lang
			}
			return "/" + lang + p
		},
		"year":  func() int { return time.Now().Year() },
		"asset": func(p string) string { return "/static/" + p },
		// dict creates a map from key-value pairs for passing to sub-templates.
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
		"fmtTime": func(ts any, zone string) string {
			var t time.Time
			switch v := ts.(type) {
			case time.Time:
				t = v
			case *time.Time:
				if v == nil {
					return ""
				}
				t = *v
			default:
				return ""
			}
			if loc, err := time.LoadLocation(zone); err == nil {
				t = t.In(loc)
			}
			return t.Format("Mon 02 Jan 2006 15:04")
		},
	}
}

// layoutBase walks upward from a template path to find the directory that
// contains layout.html. If none is found, it returns the template's own dir.
func layoutBase(mainPath string) string {
	d := filepath.Dir(mainPath)
	for {
		lp := filepath.Join(d, "layout.html")
		if fi, err := os.Stat(lp); err == nil && !fi.IsDir() {
			return d
		}
		p := filepath.Dir(d)
		if p == d { // reached filesystem root
			return filepath.Dir(mainPath)
		}
		d = p
	}
}

// Render parses and executes a template file with the shared layout and
// funcs. name is relative to the templates dir (e.g. "societies/index.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	if _, exists := data["Lang"]; !exists {
		data["Lang"] = i18n.LocaleFromContext(r.Context())
	}
	if _, exists := data["Errors"]; !exists {
		// Templates dereference field violations unconditionally.
		data["Errors"] = map[string]string{}
	}
	if _, exists := data["IsAdmin"]; !exists {
		// Injected as data, not a template func: cached templates keep their
		// first func map, but data is fresh on every render.
		data["IsAdmin"] = isAdminResolver != nil && isAdminResolver(r)
	}

	// Funcs close over the language, so the cache is keyed per locale.
	key := i18n.LocaleFromContext(r.Context()) + ":" + name
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[key]
		tplCache.RUnlock()
		if ok && t != nil {
			return t.Execute(w, data)
		}
	}

	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		return err
	}
	baseDir = layoutBase(mainPath)
	layoutPath := filepath.Join(baseDir, "layout.html")
	funcMap := Funcs(r)

	contentBytes, _ := os.ReadFile(mainPath)
	useLayout := true
	if bytes.Contains(bytes.ToLower(contentBytes), []byte("<!doctype")) {
		// Full document provided; skip layout wrapping.
		useLayout = false
	}
	var t *template.Template
	if useLayout {
		if fi, err := os.Stat(layoutPath); err == nil && !fi.IsDir() {
			parsed, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, mainPath)
			if err != nil {
				return err
			}
			t = parsed
		} else {
			useLayout = false
		}
	}
	if !useLayout {
		parsed, err := template.New(filepath.Base(name)).Funcs(funcMap).ParseFiles(mainPath)
		if err != nil {
			return err
		}
		t = parsed
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[key] = t
		tplCache.Unlock()
	}
	if t == nil {
		return errors.New("template not cached")
	}
	return t.Execute(w, data)
}
