package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	cases := map[string]language.Tag{
		"uk":    language.Ukrainian,
		"uk-UA": language.Ukrainian,
		"en":    language.English,
		"en-GB": language.English,
		"ja":    language.English,
		"":      language.English,
		"??":    language.English,
	}
	for in, want := range cases {
		assert.Equal(t, want, Match(in), "Match(%q)", in)
	}
}

func TestTranslate(t *testing.T) {
	en := New("en")
	uk := New("uk")

	assert.Equal(t, "Next", en.T(Next))
	assert.Equal(t, "Далі", uk.T(Next))
	assert.Equal(t, "Loading models: 50%", en.T(Loading, 50.0))
	assert.Equal(t, "Завантаження моделей: 50%", uk.T(Loading, 50.0))
}

func TestFallbackToEnglish(t *testing.T) {
	uk := New("uk")
	// No Ukrainian entry for the FPS counter.
	assert.Equal(t, "60 FPS", uk.T(FPS, 60.0))

	assert.Equal(t, language.English, New("de").Language())
	assert.Equal(t, "Previous", New("de").T(Previous))
}

func TestEveryKeyHasEnglish(t *testing.T) {
	for tag, msgs := range messages {
		for key := range msgs {
			_, ok := messages[language.English][key]
			assert.True(t, ok, "%s key %q missing in English", tag, key)
		}
	}
}
