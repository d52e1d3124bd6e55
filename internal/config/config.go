package config

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Config holds the application configuration
type Config struct {
	Theme        Theme
	ThemePreset  ThemePreset
	HighContrast bool
	DiffMode     DiffMode
	ShowLineNo   bool
	TabSize      int
	Spacing      SpacingOptions
	Keybindings  Keybindings
}

// ThemePreset describes a named theme configuration.
type ThemePreset string

const (
	PresetDefault  ThemePreset = "default"
	PresetSolarize ThemePreset = "solarized"
	PresetDracula  ThemePreset = "dracula"
)

// SpacingOptions controls layout spacing and line number formatting.
type SpacingOptions struct {
	LinePadding     int
	LineSpacing     int
	LineNumberWidth int
}

// Keybindings maps semantic actions to one or more key sequences.
type Keybindings map[string][]string

// Theme defines the color scheme for the application
type Theme struct {
	AddedBg      lipgloss.Color
	AddedFg      lipgloss.Color
	RemovedBg    lipgloss.Color
	RemovedFg    lipgloss.Color
	UnchangedFg  lipgloss.Color
	ConflictFg   lipgloss.Color
	UntrackedFg  lipgloss.Color
	StagedFg     lipgloss.Color
	SelectionBg  lipgloss.Color
	LineNumberFg lipgloss.Color
	BorderFg     lipgloss.Color
	TitleFg      lipgloss.Color
	TitleBg      lipgloss.Color
	HelpFg       lipgloss.Color
	ErrorFg      lipgloss.Color
}

// DiffMode specifies how differences should be displayed
type DiffMode int

const (
	SideBySide DiffMode = iota
	Unified
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ThemePreset:  PresetDefault,
		Theme:        ThemeForPreset(PresetDefault, false),
		HighContrast: false,
		DiffMode:     SideBySide,
		ShowLineNo:   true,
		TabSize:      4,
		Spacing:      DefaultSpacing(),
		Keybindings:  DefaultKeybindings(),
	}
}

// DefaultTheme returns the default color theme
func DefaultTheme() Theme {
	return Theme{
		AddedBg:      lipgloss.Color("#2D4A2B"),
		AddedFg:      lipgloss.Color("#A8E6A3"),
		RemovedBg:    lipgloss.Color("#4A2D2D"),
		RemovedFg:    lipgloss.Color("#E6A3A3"),
		UnchangedFg:  lipgloss.Color("#B0B0B0"),
		ConflictFg:   lipgloss.Color("#E6C07B"),
		UntrackedFg:  lipgloss.Color("#7FB4CA"),
		StagedFg:     lipgloss.Color("#A8E6A3"),
		SelectionBg:  lipgloss.Color("#3A3A5A"),
		LineNumberFg: lipgloss.Color("#666666"),
		BorderFg:     lipgloss.Color("#3A3A3A"),
		TitleFg:      lipgloss.Color("#FFFFFF"),
		TitleBg:      lipgloss.Color("#5F5FAF"),
		HelpFg:       lipgloss.Color("#888888"),
		ErrorFg:      lipgloss.Color("#FF6B6B"),
	}
}

// ThemeForPreset resolves a preset name to a concrete Theme, optionally
// applying a high-contrast variation.
func ThemeForPreset(preset ThemePreset, highContrast bool) Theme {
	switch preset {
	case PresetSolarize:
		return applyContrast(Theme{
			AddedBg:      lipgloss.Color("#073642"),
			AddedFg:      lipgloss.Color("#859900"),
			RemovedBg:    lipgloss.Color("#3C1F1E"),
			RemovedFg:    lipgloss.Color("#DC322F"),
			UnchangedFg:  lipgloss.Color("#93A1A1"),
			ConflictFg:   lipgloss.Color("#B58900"),
			UntrackedFg:  lipgloss.Color("#268BD2"),
			StagedFg:     lipgloss.Color("#859900"),
			SelectionBg:  lipgloss.Color("#073642"),
			LineNumberFg: lipgloss.Color("#586E75"),
			BorderFg:     lipgloss.Color("#657B83"),
			TitleFg:      lipgloss.Color("#EEE8D5"),
			TitleBg:      lipgloss.Color("#586E75"),
			HelpFg:       lipgloss.Color("#93A1A1"),
			ErrorFg:      lipgloss.Color("#DC322F"),
		}, highContrast)
	case PresetDracula:
		return applyContrast(Theme{
			AddedBg:      lipgloss.Color("#244443"),
			AddedFg:      lipgloss.Color("#50FA7B"),
			RemovedBg:    lipgloss.Color("#402036"),
			RemovedFg:    lipgloss.Color("#FF79C6"),
			UnchangedFg:  lipgloss.Color("#F8F8F2"),
			ConflictFg:   lipgloss.Color("#F1FA8C"),
			UntrackedFg:  lipgloss.Color("#8BE9FD"),
			StagedFg:     lipgloss.Color("#50FA7B"),
			SelectionBg:  lipgloss.Color("#44475A"),
			LineNumberFg: lipgloss.Color("#6272A4"),
			BorderFg:     lipgloss.Color("#44475A"),
			TitleFg:      lipgloss.Color("#F8F8F2"),
			TitleBg:      lipgloss.Color("#6272A4"),
			HelpFg:       lipgloss.Color("#BD93F9"),
			ErrorFg:      lipgloss.Color("#FF5555"),
		}, highContrast)
	default:
		return applyContrast(DefaultTheme(), highContrast)
	}
}

// DefaultSpacing returns the default layout spacing configuration.
func DefaultSpacing() SpacingOptions {
	return SpacingOptions{LinePadding: 0, LineSpacing: 0, LineNumberWidth: 6}
}

// DefaultKeybindings returns the built-in keybinding map.
func DefaultKeybindings() Keybindings {
	return Keybindings{
		"quit":            {"ctrl+c", "q"},
		"toggle_help":     {"?"},
		"refresh":         {"r"},
		"stage":           {"s"},
		"stage_all":       {"S"},
		"unstage":         {"u"},
		"discard":         {"x"},
		"commit":          {"c"},
		"commit_ai":       {"C"},
		"push":            {"P"},
		"pull":            {"p"},
		"fetch":           {"f"},
		"branches":        {"B"},
		"history":         {"H"},
		"stash":           {"z"},
		"stash_push":      {"Z"},
		"open":            {"enter"},
		"back":            {"esc"},
		"next_section":    {"tab"},
		"prev_section":    {"shift+tab"},
		"toggle_unified":  {"v"},
		"accept_ours":     {"o"},
		"accept_theirs":   {"t"},
		"accept_both":     {"b"},
		"reset_section":   {"R"},
		"edit_section":    {"e"},
		"next_conflict":   {"n"},
		"prev_conflict":   {"N"},
		"merge_continue":  {"m"},
		"merge_abort":     {"M"},
		"scroll_down":     {"j", "down"},
		"scroll_up":       {"k", "up"},
		"page_down":       {"pgdown", "ctrl+d"},
		"page_up":         {"pgup", "ctrl+u"},
		"go_top":          {"g", "home"},
		"go_bottom":       {"G", "end"},
		"toggle_line_num": {"ctrl+n"},
	}
}

// MergeKeybindings overlays user overrides onto defaults.
func MergeKeybindings(overrides Keybindings) Keybindings {
	defaults := DefaultKeybindings()
	for action, keys := range overrides {
		if len(keys) == 0 {
			continue
		}
		defaults[action] = keys
	}
	return defaults
}

func applyContrast(theme Theme, highContrast bool) Theme {
	if !highContrast {
		return theme
	}

	boost := func(c lipgloss.Color, factor float64) lipgloss.Color {
		return lipgloss.Color(adjustBrightness(string(c), factor))
	}
	theme.AddedBg = boost(theme.AddedBg, 0.15)
	theme.AddedFg = boost(theme.AddedFg, 0.25)
	theme.RemovedBg = boost(theme.RemovedBg, 0.15)
	theme.RemovedFg = boost(theme.RemovedFg, 0.25)
	theme.UnchangedFg = boost(theme.UnchangedFg, 0.2)
	theme.ConflictFg = boost(theme.ConflictFg, 0.25)
	theme.UntrackedFg = boost(theme.UntrackedFg, 0.2)
	theme.StagedFg = boost(theme.StagedFg, 0.2)
	theme.LineNumberFg = boost(theme.LineNumberFg, 0.2)
	theme.BorderFg = boost(theme.BorderFg, 0.2)
	theme.TitleFg = boost(theme.TitleFg, 0.2)
	theme.TitleBg = boost(theme.TitleBg, 0.2)
	theme.HelpFg = boost(theme.HelpFg, 0.2)
	theme.ErrorFg = boost(theme.ErrorFg, 0.25)
	return theme
}

func adjustBrightness(hex string, factor float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}

	var r, g, b int
	_, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return hex
	}

	boost := func(value int) int {
		adjusted := float64(value) * (1 + factor)
		if adjusted > 255 {
			adjusted = 255
		}
		return int(adjusted)
	}

	return fmt.Sprintf("#%02x%02x%02x", boost(r), boost(g), boost(b))
}
