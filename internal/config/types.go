package config

// Config is the top-level scanner configuration parsed from YAML or TOML.
type Config struct {
	Scanner    Scanner     `yaml:"scanner" toml:"scanner" json:"scanner"`
	Frameworks []Framework `yaml:"frameworks" toml:"frameworks" json:"frameworks,omitempty"`
}

// Scanner holds the scan defaults and parser limits.
type Scanner struct {
	Framework       string  `yaml:"framework" toml:"framework" json:"framework"`
	Threshold       float64 `yaml:"threshold" toml:"threshold" json:"threshold"`
	PreviewBytes    int     `yaml:"preview_bytes" toml:"preview_bytes" json:"preview_bytes"`
	MaxFileSize     int64   `yaml:"max_file_size" toml:"max_file_size" json:"max_file_size"`
	MaxOutputBytes  int     `yaml:"max_output_bytes" toml:"max_output_bytes" json:"max_output_bytes"`
	MaxNestingDepth int     `yaml:"max_nesting_depth" toml:"max_nesting_depth" json:"max_nesting_depth"`
	Database        string  `yaml:"database" toml:"database" json:"database"`
	History         *bool   `yaml:"history" toml:"history" json:"history"`
}

// HistoryEnabled reports whether scans are recorded; unset means yes.
func (s Scanner) HistoryEnabled() bool {
	return s.History == nil || *s.History
}

// Framework is a user-defined set of controls. A framework whose name
// matches a built-in one replaces it.
type Framework struct {
	Name        string    `yaml:"name" toml:"name" json:"name"`
	Description string    `yaml:"description" toml:"description" json:"description,omitempty"`
	Controls    []Control `yaml:"controls" toml:"controls" json:"controls"`
}

// Control is one requirement checked by literal phrase matching.
type Control struct {
	ID          string   `yaml:"id" toml:"id" json:"id"`
	Name        string   `yaml:"name" toml:"name" json:"name"`
	Category    string   `yaml:"category" toml:"category" json:"category,omitempty"`
	Description string   `yaml:"description" toml:"description" json:"description,omitempty"`
	Severity    string   `yaml:"severity" toml:"severity" json:"severity"`
	Match       []string `yaml:"match" toml:"match" json:"match"`
	PassDetail  string   `yaml:"pass_detail" toml:"pass_detail" json:"pass_detail,omitempty"`
	FailDetail  string   `yaml:"fail_detail" toml:"fail_detail" json:"fail_detail,omitempty"`
	Remediation string   `yaml:"remediation" toml:"remediation" json:"remediation,omitempty"`
}
