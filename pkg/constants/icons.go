// Package constants holds the display icons shared by CLI commands.
package constants

// Icon constants for CLI messages.
const (
	// IconWarn prefixes build and environment warnings.
	IconWarn = "⚠️"

	// IconError prefixes failed validation messages.
	IconError = "❌"

	// IconCheckmarkBox prefixes successful validation messages.
	IconCheckmarkBox = "✅"

	// IconLightbulb prefixes follow-up suggestions.
	IconLightbulb = "💡"
)
