// File: internal/computer/shortcuts.go
package computer

import "sort"

// namedShortcuts maps friendly shortcut names to macOS key chords. The hotkey
// action accepts either one of these names or an explicit key list.
var namedShortcuts = map[string][]string{
	// Text editing
	"copy":       {"command", "c"},
	"paste":      {"command", "v"},
	"cut":        {"command", "x"},
	"undo":       {"command", "z"},
	"redo":       {"command", "shift", "z"},
	"select_all": {"command", "a"},
	"save":       {"command", "s"},
	"save_as":    {"command", "shift", "s"},

	// Navigation
	"spotlight":       {"command", "space"},
	"switch_app":      {"command", "tab"},
	"mission_control": {"control", "up"},
	"app_windows":     {"control", "down"},
	"next_tab":        {"command", "shift", "]"},
	"previous_tab":    {"command", "shift", "["},

	// Window management
	"new_window":   {"command", "n"},
	"close_window": {"command", "w"},
	"minimize":     {"command", "m"},
	"quit_app":     {"command", "q"},

	// Browser
	"new_tab":        {"command", "t"},
	"reload":         {"command", "r"},
	"hard_reload":    {"command", "shift", "r"},
	"private_window": {"command", "shift", "n"},

	// System
	"screenshot":           {"command", "shift", "3"},
	"screenshot_selection": {"command", "shift", "4"},
	"lock_screen":          {"command", "control", "q"},
	"force_quit":           {"command", "option", "escape"},
}

// Shortcut resolves a named shortcut to its key chord. The second return
// value reports whether the name is known.
func Shortcut(name string) ([]string, bool) {
	keys, ok := namedShortcuts[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), keys...), true
}

// ShortcutNames lists all known shortcut names in ascending order.
func ShortcutNames() []string {
	names := make([]string, 0, len(namedShortcuts))
	for name := range namedShortcuts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
