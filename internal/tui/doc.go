// Package tui provides terminal user interface components for forage-dev.
//
// # Picker
//
// The picker shows a filterable list and returns the chosen id. It backs
// "config add --pick" (registry entries) and "open" without a repository
// (local clones):
//
//	result, err := tui.RunPicker("Registry", items)
//	switch result.Action {
//	case tui.ActionSelect:
//	    // use result.ID
//	case tui.ActionQuit, tui.ActionNone:
//	    // nothing chosen
//	}
//
// Keys: enter (select), / (filter), q or esc (quit).
//
// SimpleList renders the same items as plain text when stdin is not a
// terminal.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
