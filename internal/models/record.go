package models

// BlockRecord is the flattened JSON form of a block
type BlockRecord struct {
	Index       int          `json:"index"`
	Action      string       `json:"action"`
	Enabled     bool         `json:"enabled"`
	Group       []string     `json:"group,omitempty"`
	Description string       `json:"description,omitempty"`
	Conditions  []ItemRecord `json:"conditions"`
	Actions     []ItemRecord `json:"actions"`
	Unknown     []string     `json:"unknown,omitempty"`
}

// ItemRecord is one recognized item line of a BlockRecord
type ItemRecord struct {
	Keyword string `json:"keyword"`
	Line    string `json:"line"`
	Valid   bool   `json:"valid"`
}

// GroupRecord is the flattened JSON form of a block group
type GroupRecord struct {
	Path     []string `json:"path"`
	Advanced bool     `json:"advanced,omitempty"`
	Show     string   `json:"show"`
	Enabled  string   `json:"enabled"`
	Blocks   int      `json:"blocks"`
}
