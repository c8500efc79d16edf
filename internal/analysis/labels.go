package analysis

import (
	"sort"
	"strings"

	"disasexpl/internal/asm"
)

// Label is a live label of a listing.
type Label struct {
	Name      string `json:"name"`
	Demangled string `json:"demangled,omitempty"`
	// Line is the 1-based line defining the label.
	Line  int  `json:"line"`
	Local bool `json:"local"`
	// Refs counts the references to the label across the listing.
	Refs int `json:"refs"`
}

// Labels returns the labels defined in res, ordered by line.
func Labels(res *asm.Result) []Label {
	refs := make(map[string]int)
	for _, l := range res.Lines {
		for _, ref := range l.Labels {
			refs[ref.Name]++
		}
	}

	labels := make([]Label, 0, len(res.LabelDefinitions))
	for name, line := range res.LabelDefinitions {
		label := Label{
			Name:  name,
			Line:  line,
			Local: strings.HasPrefix(name, ".") || strings.HasPrefix(name, "$"),
			Refs:  refs[name],
		}
		if !label.Local {
			if d := CachedDemangle(name); d != name {
				label.Demangled = d
			}
		}
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Line != labels[j].Line {
			return labels[i].Line < labels[j].Line
		}
		return labels[i].Name < labels[j].Name
	})
	return labels
}

// DisplayName is the demangled name when there is one.
func (l Label) DisplayName() string {
	if l.Demangled != "" {
		return l.Demangled
	}
	return l.Name
}
