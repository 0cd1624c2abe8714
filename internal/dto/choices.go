// Package dto holds the on-disk shapes read by the command line tools.
package dto

// Choices is a scripted answer file for a wizard, decoded from YAML.
// It uses "mapstructure" tags so the same keys work from any generic map.
//
//	selections:
//	  Core:
//	    Essentials: [Core Files]
//	  Extras:
//	    Addons: Patch
//	active_plugins: [Skyrim.esm]
//	files:
//	  HighRes.esp: Inactive
type Choices struct {
	// Selections lists, per step and group, the options to end up selected.
	// Groups left out keep their defaults.
	Selections map[string]map[string][]string `json:"selections" mapstructure:"selections"`

	// ActivePlugins are reported Active to file dependencies.
	ActivePlugins []string `json:"active_plugins" mapstructure:"active_plugins"`

	// Files overrides the state of individual files (Missing, Inactive, Active).
	Files map[string]string `json:"files" mapstructure:"files"`
}
