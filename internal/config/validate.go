package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Severities are the accepted control severity names.
var Severities = []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}

// Validate checks a Config for structural and semantic errors. builtins
// names the frameworks available without configuration; the scanner's
// framework must be one of them or a configured framework.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config, builtins ...string) []ValidationError {
	var errs []ValidationError
	s := cfg.Scanner

	errs = append(errs, collect("scanner", validation.ValidateStruct(&s,
		validation.Field(&s.Framework, validation.Required),
		validation.Field(&s.Threshold, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&s.PreviewBytes, validation.Min(0)),
		validation.Field(&s.MaxFileSize, validation.Min(int64(0))),
		validation.Field(&s.MaxOutputBytes, validation.Min(0)),
		validation.Field(&s.MaxNestingDepth, validation.Min(0)),
	))...)

	known := make(map[string]bool)
	for _, name := range builtins {
		known[strings.ToLower(name)] = true
	}

	seenFrameworks := make(map[string]bool)
	for i := range cfg.Frameworks {
		fw := &cfg.Frameworks[i]
		prefix := fmt.Sprintf("frameworks[%d]", i)

		errs = append(errs, collect(prefix, validation.ValidateStruct(fw,
			validation.Field(&fw.Name, validation.Required),
			validation.Field(&fw.Controls, validation.Required),
		))...)

		key := strings.ToLower(fw.Name)
		if fw.Name != "" {
			if seenFrameworks[key] {
				errs = append(errs, ValidationError{
					Field:   prefix + ".name",
					Message: fmt.Sprintf("duplicate framework %q", fw.Name),
				})
			}
			seenFrameworks[key] = true
			known[key] = true
		}

		seenControls := make(map[string]bool)
		for j := range fw.Controls {
			c := &fw.Controls[j]
			cprefix := fmt.Sprintf("%s.controls[%d]", prefix, j)
			errs = append(errs, validateControl(cprefix, c)...)

			if c.ID == "" {
				continue
			}
			if seenControls[c.ID] {
				errs = append(errs, ValidationError{
					Field:   cprefix + ".id",
					Message: fmt.Sprintf("duplicate control ID %q", c.ID),
				})
			}
			seenControls[c.ID] = true
		}
	}

	if s.Framework != "" && !known[strings.ToLower(s.Framework)] {
		errs = append(errs, ValidationError{
			Field:   "scanner.framework",
			Message: fmt.Sprintf("references undefined framework %q", s.Framework),
		})
	}

	return errs
}

func validateControl(prefix string, c *Control) []ValidationError {
	sevs := make([]interface{}, len(Severities))
	for i, s := range Severities {
		sevs[i] = s
	}
	return collect(prefix, validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Severity, validation.Required, validation.In(sevs...)),
		validation.Field(&c.Match, validation.Required, validation.Each(validation.Required)),
	))
}

// collect flattens ozzo validation errors into ValidationErrors sorted by field.
func collect(prefix string, err error) []ValidationError {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: prefix, Message: err.Error()}}
	}

	keys := make([]string, 0, len(verrs))
	for k := range verrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []ValidationError
	for _, k := range keys {
		field := prefix + "." + k
		var nested validation.Errors
		if errors.As(verrs[k], &nested) {
			out = append(out, collectIndexed(field, nested)...)
			continue
		}
		out = append(out, ValidationError{Field: field, Message: verrs[k].Error()})
	}
	return out
}

// collectIndexed renders the per-element errors produced by validation.Each.
func collectIndexed(field string, verrs validation.Errors) []ValidationError {
	keys := make([]string, 0, len(verrs))
	for k := range verrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ValidationError, 0, len(keys))
	for _, k := range keys {
		out = append(out, ValidationError{
			Field:   fmt.Sprintf("%s[%s]", field, k),
			Message: verrs[k].Error(),
		})
	}
	return out
}
