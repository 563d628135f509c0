// Package i18n provides the supported locale set, message lookup and the
// locale-prefix routing used by every page of the portal.
package i18n

import (
	"context"
	"strings"
)

// Supported locale codes in display order, and the designated default.
var Locales = []string{"it", "en", "de"}

const DefaultLocale = "it"

type localeKey struct{}

// WithLocale returns a new context carrying the active locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the active locale, or the default when unset.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLocale
}

// Supported reports whether code is one of the supported locales.
func Supported(code string) bool {
	for _, l := range Locales {
		if l == code {
			return true
		}
	}
	return false
}

// DetectLanguage picks a supported locale from an Accept-Language header,
// falling back to the default.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(part)
		if i := strings.IndexAny(lang, "-;"); i >= 0 {
			lang = lang[:i]
		}
		lang = strings.ToLower(lang)
		if Supported(lang) {
			return lang
		}
	}
	return DefaultLocale
}

// T returns the translation of code for lang. Unknown languages fall back to
// the default locale's catalog; unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLocale][code]; ok {
		return s
	}
	return code
}

var messages = map[string]map[string]string{
	"it": {
		"nav.societies":                 "Società",
		"nav.events":                    "Eventi",
		"nav.account":                   "Account",
		"nav.admin":                     "Amministrazione",
		"nav.sign_in":                   "Accedi",
		"nav.sign_out":                  "Esci",
		"societies.title":               "Società",
		"societies.none":                "Nessuna società trovata.",
		"societies.create":              "Registra una società",
		"societies.pending":             "In attesa di approvazione",
		"events.title":                  "Eventi",
		"events.none":                   "Nessun evento in programma.",
		"events.create":                 "Crea un evento",
		"event_type.gara":               "Gara",
		"event_type.sparring":           "Sparring",
		"event_type.seminario":          "Seminario",
		"event_type.allenamento_aperto": "Allenamento aperto",
		"admin.approve":                 "Approva",
		"admin.reject":                  "Rifiuta",
		"admin.grant":                   "Rendi admin",
		"admin.revoke":                  "Revoca admin",
		"error.required":                "Obbligatorio",
		"error.too_short":               "Troppo corto",
		"error.too_long":                "Troppo lungo",
		"error.invalid":                 "Non valido",
		"error.invalid_url":             "URL non valido",
		"error.slug_taken":              "Nome già in uso, riprova",
		"error.email_taken":             "Email già registrata",
		"error.invalid_credentials":     "Email o password errati",
		"error.self_revocation":         "Non puoi revocare il tuo stesso ruolo di amministratore",
		"error.last_admin":              "Impossibile revocare l'ultimo amministratore",
		"error.unauthorized":            "Non autorizzato",
		"error.generic":                 "Si è verificato un errore, riprova",
	},
	"en": {
		"nav.societies":                 "Societies",
		"nav.events":                    "Events",
		"nav.account":                   "Account",
		"nav.admin":                     "Admin",
		"nav.sign_in":                   "Sign in",
		"nav.sign_out":                  "Sign out",
		"societies.title":               "Societies",
		"societies.none":                "No societies found.",
		"societies.create":              "Register a society",
		"societies.pending":             "Pending approval",
		"events.title":                  "Events",
		"events.none":                   "No upcoming events.",
		"events.create":                 "Create an event",
		"event_type.gara":               "Tournament",
		"event_type.sparring":           "Sparring",
		"event_type.seminario":          "Seminar",
		"event_type.allenamento_aperto": "Open training",
		"admin.approve":                 "Approve",
		"admin.reject":                  "Reject",
		"admin.grant":                   "Make admin",
		"admin.revoke":                  "Revoke admin",
		"error.required":                "Required",
		"error.too_short":               "Too short",
		"error.too_long":                "Too long",
		"error.invalid":                 "Invalid",
		"error.invalid_url":             "Invalid URL",
		"error.slug_taken":              "Name already taken, try again",
		"error.email_taken":             "Email already registered",
		"error.invalid_credentials":     "Wrong email or password",
		"error.self_revocation":         "You cannot revoke your own admin role",
		"error.last_admin":              "Cannot revoke the last remaining admin",
		"error.unauthorized":            "Not authorized",
		"error.generic":                 "Something went wrong, please retry",
	},
	"de": {
		"nav.societies":                 "Vereine",
		"nav.events":                    "Veranstaltungen",
		"nav.account":                   "Konto",
		"nav.admin":                     "Verwaltung",
		"nav.sign_in":                   "Anmelden",
		"nav.sign_out":                  "Abmelden",
		"societies.title":               "Vereine",
		"societies.none":                "Keine Vereine gefunden.",
		"societies.create":              "Verein registrieren",
		"societies.pending":             "Wartet auf Freigabe",
		"events.title":                  "Veranstaltungen",
		"events.none":                   "Keine anstehenden Veranstaltungen.",
		"events.create":                 "Veranstaltung erstellen",
		"event_type.gara":               "Turnier",
		"event_type.sparring":           "Sparring",
		"event_type.seminario":          "Seminar",
		"event_type.allenamento_aperto": "Offenes Training",
		"admin.approve":                 "Freigeben",
		"admin.reject":                  "Ablehnen",
		"admin.grant":                   "Zum Admin machen",
		"admin.revoke":                  "Admin entziehen",
		"error.required":                "Erforderlich",
		"error.too_short":               "Zu kurz",
		"error.too_long":                "Zu lang",
		"error.invalid":                 "Ungültig",
		"error.invalid_url":             "Ungültige URL",
		"error.slug_taken":              "Name bereits vergeben, bitte erneut versuchen",
		"error.email_taken":             "E-Mail bereits registriert",
		"error.invalid_credentials":     "Falsche E-Mail oder falsches Passwort",
		"error.self_revocation":         "Du kannst deine eigene Admin-Rolle nicht entziehen",
		"error.last_admin":              "Der letzte Admin kann nicht entfernt werden",
		"error.unauthorized":            "Nicht berechtigt",
		"error.generic":                 "Etwas ist schiefgelaufen, bitte erneut versuchen",
	},
}
