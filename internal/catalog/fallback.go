package catalog

import "github.com/Acode-Foundation/acode-site/internal/models"

// FallbackPlugins is the embedded dataset shown when the public catalog
// endpoint is unreachable.
func FallbackPlugins() []models.Plugin {
	return []models.Plugin{
		{
			ID:       "acode.plugin.git",
			SKU:      "plugin_git",
			Name:     "Git",
			Author:   "Acode",
			Price:    0,
			Version:  "1.2.0",
			Keywords: `["git","vcs","source control"]`,
			License:  "MIT",
		},
		{
			ID:       "acode.plugin.prettier",
			SKU:      "plugin_prettier",
			Name:     "Prettier",
			Author:   "Acode",
			Price:    0,
			Version:  "2.0.1",
			Keywords: `["formatter","prettier"]`,
			License:  "MIT",
		},
		{
			ID:       "acode.plugin.console",
			SKU:      "plugin_console",
			Name:     "Console",
			Author:   "Acode",
			Price:    1.99,
			Version:  "1.0.4",
			Keywords: `["console","debug"]`,
			License:  "MIT",
		},
	}
}
