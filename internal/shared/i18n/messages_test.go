package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"en-US,en;q=0.9", "en"},
		{"es-MX,es;q=0.9,en;q=0.5", "es"},
		{"pt-BR", "pt"},
		{"fr-FR,fr;q=0.9", "en"}, // unsupported falls back
		{"garbage;;;", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLocale(tt.header))
		})
	}
}

func TestLocalizeFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, translations["en"][KeyQuotaExhausted], Localize("de", KeyQuotaExhausted))
}

func TestLocalizeKnownLocales(t *testing.T) {
	for _, locale := range []string{"en", "es", "pt"} {
		for _, key := range []string{KeyUpgradeRequired, KeyQuotaExhausted, KeyTryAgainAfter, KeyTemporaryError} {
			assert.NotEmpty(t, Localize(locale, key), "locale %s key %s", locale, key)
		}
	}
}
