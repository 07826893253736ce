// Package i18n translates stable message codes into user-facing text.
// French is the default language of the platform.
package i18n

import (
	"context"
	"strings"
)

type ctxKey string

const langCtxKey = ctxKey("lang")

const defaultLang = "fr"

var catalog = map[string]map[string]string{
	"fr": {
		"required":             "Requis",
		"must_be_positive":     "Doit être positif",
		"unauthorized":         "Non autorisé",
		"forbidden":            "Accès refusé",
		"not_found":            "Introuvable",
		"validation_failed":    "Données invalides",
		"internal_error":       "Une erreur est survenue, veuillez réessayer",
		"insufficient_stock":   "Stock insuffisant",
		"conflict":             "Conflit de mise à jour, veuillez réessayer",
		"work_not_on_sale":     "Cet ouvrage n'est pas en vente",
		"invalid_transition":   "Transition de statut non autorisée",
		"order_status_changed": "Le statut de votre commande a changé",
	},
	"en": {
		"required":             "Required",
		"must_be_positive":     "Must be positive",
		"unauthorized":         "Unauthorized",
		"forbidden":            "Forbidden",
		"not_found":            "Not found",
		"validation_failed":    "Invalid data",
		"internal_error":       "Something went wrong, please retry",
		"insufficient_stock":   "Insufficient stock",
		"conflict":             "Update conflict, please retry",
		"work_not_on_sale":     "This work is not on sale",
		"invalid_transition":   "Status transition not allowed",
		"order_status_changed": "Your order status changed",
	},
}

// DetectLanguage picks a supported language from an Accept-Language header.
// Falls back to French.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		lang := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(lang, "-;"); i >= 0 {
			lang = lang[:i]
		}
		if _, ok := catalog[lang]; ok {
			return lang
		}
	}
	return defaultLang
}

// T translates code for lang, falling back to French, then to the code itself.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if msg, ok := msgs[code]; ok {
			return msg
		}
	}
	if msg, ok := catalog[defaultLang][code]; ok {
		return msg
	}
	return code
}

// WithLang stores the request language in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langCtxKey, lang)
}

// LangFromContext extracts the request language, defaulting to French.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(langCtxKey).(string); ok && v != "" {
		return v
	}
	return defaultLang
}
