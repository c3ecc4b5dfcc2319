package models

// Channel is one configured YouTube live channel: id, display name, watch-page
// URL, optional logo and group. Channels are read-only input for a run; they
// come from the channels file and are never mutated.
type Channel struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	URL   string `yaml:"url" json:"url"`
	Logo  string `yaml:"logo,omitempty" json:"logo,omitempty"`
	Group string `yaml:"group,omitempty" json:"group,omitempty"`
}
