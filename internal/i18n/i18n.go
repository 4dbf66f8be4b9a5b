// Package i18n provides the UI string catalog.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	AppTitle          = "app.title"
	Download          = "toolbar.download"
	EnterFullscreen   = "toolbar.fullscreen"
	ExitFullscreen    = "toolbar.exit_fullscreen"
	Previous          = "card.previous"
	Next              = "card.next"
	Loading           = "card.loading"
	Downloading       = "download.running"
	DownloadSaved     = "download.saved"
	DownloadFailed    = "download.failed"
	DownloadCancelled = "download.cancelled"
	FPS               = "debug.fps"
	Waiting           = "viewer.waiting"
	ScreenshotSaved   = "screenshot.saved"
	ScreenshotFailed  = "screenshot.failed"
)

var supported = []language.Tag{language.English, language.Ukrainian}

var messages = map[language.Tag]map[string]string{
	language.English: {
		AppTitle:          "KhAI campus in 3D",
		Download:          "Download KMZ",
		EnterFullscreen:   "Fullscreen",
		ExitFullscreen:    "Exit fullscreen",
		Previous:          "Previous",
		Next:              "Next",
		Loading:           "Loading models: %.0f%%",
		Downloading:       "Downloading archive...",
		DownloadSaved:     "Saved to %s",
		DownloadFailed:    "Download failed: %v",
		DownloadCancelled: "Download cancelled",
		FPS:               "%.0f FPS",
		Waiting:           "Loading %s...",
		ScreenshotSaved:   "Screenshot saved to %s",
		ScreenshotFailed:  "Screenshot failed: %v",
	},
	language.Ukrainian: {
		AppTitle:          "3D-модель ХАІ",
		Download:          "Завантажити KMZ",
		EnterFullscreen:   "На весь екран",
		ExitFullscreen:    "Вийти з повноекранного режиму",
		Previous:          "Назад",
		Next:              "Далі",
		Loading:           "Завантаження моделей: %.0f%%",
		Downloading:       "Завантаження архіву...",
		DownloadSaved:     "Збережено у %s",
		DownloadFailed:    "Помилка завантаження: %v",
		DownloadCancelled: "Завантаження скасовано",
		Waiting:           "Завантаження %s...",
		ScreenshotSaved:   "Знімок збережено у %s",
		ScreenshotFailed:  "Не вдалося зберегти знімок: %v",
	},
}

var (
	cat     *catalog.Builder
	matcher = language.NewMatcher(supported)
)

func init() {
	cat = catalog.NewBuilder(catalog.Fallback(language.English))
	for _, tag := range supported {
		// English first so every language has every key.
		for _, msgs := range []map[string]string{messages[language.English], messages[tag]} {
			for key, msg := range msgs {
				if err := cat.SetString(tag, key, msg); err != nil {
					panic(err)
				}
			}
		}
	}
}

// Printer formats UI strings for one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a printer for the closest supported match of lang ("uk", "en-GB", ...).
// Unknown languages get English.
func New(lang string) *Printer {
	tag := Match(lang)
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Match resolves lang to a supported tag.
func Match(lang string) language.Tag {
	requested, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(requested)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// T returns the translated, formatted string for key.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Language returns the printer's tag.
func (p *Printer) Language() language.Tag {
	return p.tag
}
