package resources

import (
	"embed"
	"fmt"
	"sync"

	"focusforge/internal/core/phasetimer"

	"fyne.io/fyne/v2"
)

const iconDir = "icons/"

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon name without extension.
func Icon(name string) (fyne.Resource, error) {
	return loadResource(iconFS, iconDir+name+".svg", &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(name string) fyne.Resource {
	resource, err := Icon(name)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the application and window icon.
func AppIcon() fyne.Resource {
	return MustIcon("app")
}

// TrayIcon returns the tray icon for a snapshot: grey while paused,
// otherwise coloured by phase.
func TrayIcon(snapshot phasetimer.Snapshot) fyne.Resource {
	if snapshot.Paused() {
		return MustIcon("paused")
	}
	switch snapshot.Phase {
	case phasetimer.PhaseShortBreak:
		return MustIcon("short_break")
	case phasetimer.PhaseLongBreak:
		return MustIcon("long_break")
	case phasetimer.PhaseFocus:
		return MustIcon("focus")
	default:
		return AppIcon()
	}
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
