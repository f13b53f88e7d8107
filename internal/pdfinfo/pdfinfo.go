// Package pdfinfo reports structural facts about a PDF that explain how well
// the heuristic extractor in docparse will do on it. It never produces text
// for the rule engine.
package pdfinfo

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/lucasnoah/complyd/internal/docparse"
)

func init() {
	// Inspection needs no user fonts or pdfcpu config files.
	api.DisableConfigDir()
}

// Info describes one PDF file.
type Info struct {
	Path              string         `json:"path"`
	Pages             int            `json:"pages"`
	Streams           int            `json:"streams"`
	Filters           map[string]int `json:"filters,omitempty"`
	CompressedStreams int            `json:"compressed_streams"`
	Images            int            `json:"images"`
	HasImages         bool           `json:"has_images"`
	TextBytes         int            `json:"text_bytes"`
	LikelyDegraded    bool           `json:"likely_degraded"`
	Reasons           []string       `json:"reasons,omitempty"`
}

// FilterNames returns the stream filters seen, sorted by name.
func (i *Info) FilterNames() []string {
	names := make([]string, 0, len(i.Filters))
	for name := range i.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Inspect reads and validates path with pdfcpu and inventories its streams.
// TextBytes is what docparse.ExtractPDFText recovers from the same bytes.
func Inspect(path string) (*Info, error) {
	raw, err := docparse.ReadRaw(path, docparse.DefaultMaxFileSize)
	if err != nil {
		return nil, err
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(raw), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}

	info := &Info{
		Path:    path,
		Pages:   ctx.PageCount,
		Filters: make(map[string]int),
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		info.Streams++
		image := isImage(sd)
		if image {
			info.Images++
		}
		filters := streamFilters(sd)
		for _, name := range filters {
			info.Filters[name]++
		}
		if len(filters) > 0 && !image {
			info.CompressedStreams++
		}
	}
	info.HasImages = info.Images > 0

	text, err := docparse.ExtractPDFText(raw, docparse.DefaultMaxOutputBytes)
	if err == nil {
		info.TextBytes = len(text)
	}
	info.assess()

	slog.Debug("inspected pdf", "path", path, "pages", info.Pages,
		"streams", info.Streams, "compressed", info.CompressedStreams, "images", info.Images)
	return info, nil
}

// assess decides whether heuristic extraction is expected to miss content.
func (i *Info) assess() {
	if i.TextBytes == 0 {
		i.Reasons = append(i.Reasons, "no text recovered by heuristic extraction")
	}
	if i.CompressedStreams > 0 {
		i.Reasons = append(i.Reasons, fmt.Sprintf("%d compressed stream(s) are not inflated", i.CompressedStreams))
	}
	if i.HasImages {
		i.Reasons = append(i.Reasons, fmt.Sprintf("%d image(s) carry no extractable text", i.Images))
	}
	i.LikelyDegraded = len(i.Reasons) > 0
}

func isImage(sd types.StreamDict) bool {
	subtype, found := sd.Find("Subtype")
	if !found {
		return false
	}
	name, ok := subtype.(types.Name)
	return ok && name == "Image"
}

// streamFilters returns the /Filter entry, which is a single name or an array.
func streamFilters(sd types.StreamDict) []string {
	obj, found := sd.Find("Filter")
	if !found || obj == nil {
		return nil
	}
	switch f := obj.(type) {
	case types.Name:
		return []string{string(f)}
	case types.Array:
		var names []string
		for _, o := range f {
			if n, ok := o.(types.Name); ok {
				names = append(names, string(n))
			}
		}
		return names
	}
	return nil
}
