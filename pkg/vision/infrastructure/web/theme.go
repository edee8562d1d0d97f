package web

import (
	"fmt"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
)

const (
	// ConfigKeyBaseTheme one of "soft", "default", "glass", "monochrome", "ocean"
	ConfigKeyBaseTheme = "webBaseTheme"
	// ConfigKeyPrimaryColor the hue of primary buttons and block titles
	ConfigKeyPrimaryColor = "webPrimaryColor"
	// ConfigKeySecondaryColor the hue of secondary accents
	ConfigKeySecondaryColor = "webSecondaryColor"
	// ConfigKeyNeutralColor the hue of backgrounds and borders
	ConfigKeyNeutralColor = "webNeutralColor"
)

// Theme enumerates every styling option the demo page recognizes. Strongly typed and validated at
// construction, so a misspelled hue fails at startup instead of silently falling back.
type Theme struct {
	// BaseTheme the overall look: "soft", "default", "glass", "monochrome" or "ocean"
	BaseTheme string
	// PrimaryColor the hue used for primary buttons and headings
	PrimaryColor string
	// SecondaryColor the hue used for secondary accents
	SecondaryColor string
	// NeutralColor the hue used for backgrounds and borders
	NeutralColor string
}

var baseThemes = []string{"soft", "default", "glass", "monochrome", "ocean"}

// hues maps every recognized hue to the CSS color the page template uses.
var hues = map[string]string{
	"blue":   "#2563eb",
	"cyan":   "#0891b2",
	"green":  "#16a34a",
	"orange": "#ea580c",
	"purple": "#9333ea",
	"pink":   "#db2777",
	"red":    "#dc2626",
	"gray":   "#4b5563",
	"slate":  "#475569",
	"zinc":   "#52525b",
	"stone":  "#57534e",
}

// DefaultTheme the colors the demo ships with.
func DefaultTheme() Theme {
	return Theme{
		BaseTheme:      "default",
		PrimaryColor:   "orange",
		SecondaryColor: "cyan",
		NeutralColor:   "slate",
	}
}

// ThemeFromConfig reads the theme from the config file, falling back to the defaults. The result
// still has to be checked with Validate() at construction time.
func ThemeFromConfig(config *common.Config) Theme {
	defaults := DefaultTheme()
	return Theme{
		BaseTheme:      config.GetStringOrDefault(ConfigKeyBaseTheme, defaults.BaseTheme),
		PrimaryColor:   config.GetStringOrDefault(ConfigKeyPrimaryColor, defaults.PrimaryColor),
		SecondaryColor: config.GetStringOrDefault(ConfigKeySecondaryColor, defaults.SecondaryColor),
		NeutralColor:   config.GetStringOrDefault(ConfigKeyNeutralColor, defaults.NeutralColor),
	}
}

// Validate rejects unrecognized theme options.
func (t Theme) Validate() error {
	if !common.IsStringInSlice(t.BaseTheme, baseThemes) {
		return fmt.Errorf("unknown base theme \"%s\" (recognized: %v)", t.BaseTheme, baseThemes)
	}
	for _, hue := range []string{t.PrimaryColor, t.SecondaryColor, t.NeutralColor} {
		if _, ok := hues[hue]; !ok {
			return fmt.Errorf("unknown color hue \"%s\"", hue)
		}
	}
	return nil
}

func (t Theme) primaryCSS() string {
	return hues[t.PrimaryColor]
}

func (t Theme) secondaryCSS() string {
	return hues[t.SecondaryColor]
}

func (t Theme) neutralCSS() string {
	return hues[t.NeutralColor]
}
