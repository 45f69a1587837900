package widget

import (
	"github.com/go-go-golems/marionette/pkg/settings"
)

// ShouldRender decides widget visibility. It is false until resolution has
// settled, regardless of configuration, so the default-configured UI never
// flashes before the real settings land. Pure; evaluated on every render.
func ShouldRender(ready bool, desktop bool, cfg settings.Settings) bool {
	if !ready {
		return false
	}
	if desktop {
		return cfg.DesktopEnabled()
	}
	return cfg.MobileEnabled()
}
