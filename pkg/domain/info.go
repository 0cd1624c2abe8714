package domain

// ModuleInfo is the optional package metadata shipped next to the module configuration.
type ModuleInfo struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Website     string   `json:"website,omitempty" yaml:"website,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Groups      []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// DefaultVersion is used when the metadata carries no version.
const DefaultVersion = "1.0.0"

// Manifest is what the host installer receives once the wizard is finished.
type Manifest struct {
	Name        string      `json:"name" yaml:"name"`
	Version     string      `json:"version" yaml:"version"`
	Author      string      `json:"author,omitempty" yaml:"author,omitempty"`
	Website     string      `json:"website,omitempty" yaml:"website,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Categories  []string    `json:"categories" yaml:"categories"`
	Files       []PlanEntry `json:"files" yaml:"files"`
}
