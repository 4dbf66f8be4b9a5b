package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging and the FPS counter")
	flagWidth  = flag.Int("width", 0, "Window width")
	flagHeight = flag.Int("height", 0, "Window height")
	flagModels = flag.String("models", "", "Directory containing the .glb models")
	flagModel  = flag.String("model", "", "Show only this .glb file")
	flagLang   = flag.String("lang", "", "UI language (en, uk)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.UI.ShowFPS = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagModels != "" {
		cfg.Assets.ModelsDir = *flagModels
	}
	if *flagModel != "" {
		cfg.Catalog = restrictCatalog(cfg.Catalog, *flagModel)
	}
	if *flagLang != "" {
		cfg.UI.Language = *flagLang
	}
}

// restrictCatalog keeps the entry for file, or makes a bare entry when the
// file is not part of the catalog.
func restrictCatalog(catalog []ModelEntry, file string) []ModelEntry {
	for _, entry := range catalog {
		if entry.File == file {
			return []ModelEntry{entry}
		}
	}
	return []ModelEntry{{File: file}}
}
