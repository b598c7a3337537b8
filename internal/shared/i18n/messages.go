// Package i18n localizes user-facing access-control messages. The decision
// engine always produces English reasons; handlers attach a localized prompt
// based on the request's Accept-Language header.
package i18n

import (
	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English, // default
	language.Spanish,
	language.Portuguese,
}

var matcher = language.NewMatcher(supported)

// Message keys understood by Localize.
const (
	KeyUpgradeRequired = "upgrade_required"
	KeyQuotaExhausted  = "quota_exhausted"
	KeyTryAgainAfter   = "try_again_after"
	KeyTemporaryError  = "temporary_error"
)

var translations = map[string]map[string]string{
	"en": {
		KeyUpgradeRequired: "Upgrade to %s to unlock this feature.",
		KeyQuotaExhausted:  "You have reached your usage limit for this feature.",
		KeyTryAgainAfter:   "Your limit resets at %s.",
		KeyTemporaryError:  "Something went wrong on our side. Please try again in a moment.",
	},
	"es": {
		KeyUpgradeRequired: "Mejora a %s para desbloquear esta función.",
		KeyQuotaExhausted:  "Has alcanzado tu límite de uso para esta función.",
		KeyTryAgainAfter:   "Tu límite se restablece a las %s.",
		KeyTemporaryError:  "Algo salió mal de nuestro lado. Inténtalo de nuevo en un momento.",
	},
	"pt": {
		KeyUpgradeRequired: "Faça upgrade para %s para desbloquear este recurso.",
		KeyQuotaExhausted:  "Você atingiu seu limite de uso para este recurso.",
		KeyTryAgainAfter:   "Seu limite será redefinido às %s.",
		KeyTemporaryError:  "Algo deu errado do nosso lado. Tente novamente em instantes.",
	},
}

// MatchLocale resolves an Accept-Language header value to a supported locale
// code ("en", "es", "pt"). Unknown or empty input falls back to English.
func MatchLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return "en"
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := matcher.Match(tags...)
	base, _ := supported[index].Base()
	return base.String()
}

// Localize returns the message template for the given locale and key,
// falling back to English for unknown locales or keys.
func Localize(locale, key string) string {
	if msgs, ok := translations[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return translations["en"][key]
}
