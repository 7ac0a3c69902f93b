// Package config loads mcal settings.
//
// Settings come from config.json in the config directory ($MCAL_CONFIG_DIR,
// default ~/.config/multical) and can be overridden with MCAL_* environment
// variables. Nested keys use underscores, so display.military_time is
// MCAL_DISPLAY_MILITARY_TIME.
package config
