package checks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasnoah/complyd/internal/config"
)

// Control is one requirement of a framework, satisfied when any Match
// phrase occurs verbatim in the normalized document.
type Control struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity"`
	Match       []string `json:"match"`
	PassDetail  string   `json:"pass_detail"`
	FailDetail  string   `json:"fail_detail"`
	Remediation string   `json:"remediation"`
}

// Framework is an ordered set of controls.
type Framework struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Controls    []Control `json:"controls"`
}

var builtins = map[string]func() *Framework{
	"hipaa": hipaa,
}

// Builtin returns a fresh copy of the named built-in framework.
func Builtin(name string) (*Framework, bool) {
	ctor, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// BuiltinNames lists the built-in frameworks in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig converts a configured framework. Controls without a severity
// default to MEDIUM and missing details fall back to generic wording.
func FromConfig(cf config.Framework) (*Framework, error) {
	fw := &Framework{Name: cf.Name, Description: cf.Description}
	for i, cc := range cf.Controls {
		sev := SeverityMedium
		if cc.Severity != "" {
			parsed, err := ParseSeverity(cc.Severity)
			if err != nil {
				return nil, fmt.Errorf("framework %q control %d: %w", cf.Name, i, err)
			}
			sev = parsed
		}
		c := Control{
			ID:          cc.ID,
			Name:        cc.Name,
			Category:    cc.Category,
			Description: cc.Description,
			Severity:    sev,
			Match:       append([]string(nil), cc.Match...),
			PassDetail:  cc.PassDetail,
			FailDetail:  cc.FailDetail,
			Remediation: cc.Remediation,
		}
		if c.PassDetail == "" {
			c.PassDetail = c.Name + " is configured"
		}
		if c.FailDetail == "" {
			c.FailDetail = c.Name + " is NOT configured"
		}
		fw.Controls = append(fw.Controls, c)
	}
	return fw, nil
}

// Resolve picks the framework called name: a configured one wins over a
// builtin of the same name. An empty name selects cfg.Scanner.Framework.
func Resolve(cfg *config.Config, name string) (*Framework, error) {
	if name == "" && cfg != nil {
		name = cfg.Scanner.Framework
	}
	if name == "" {
		name = config.DefaultFramework
	}
	if cfg != nil {
		for _, cf := range cfg.Frameworks {
			if strings.EqualFold(cf.Name, name) {
				return FromConfig(cf)
			}
		}
	}
	if fw, ok := Builtin(name); ok {
		return fw, nil
	}
	return nil, fmt.Errorf("unknown framework %q", name)
}
