package skills

import (
	"sort"
	"strings"
)

// builtinSynonyms maps common skill aliases to canonical names.
// Configured synonyms are merged on top of this table.
var builtinSynonyms = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"js":         "javascript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"nodejs":     "node.js",
	"node":       "node.js",
	"postgres":   "postgresql",
	"ms excel":   "excel",
	"ms office":  "microsoft office",
	"c sharp":    "c#",
	"amazon aws": "aws",
}

// displayNames gives the conventional spelling of common canonical skills
var displayNames = map[string]string{
	"go":               "Go",
	"javascript":       "JavaScript",
	"typescript":       "TypeScript",
	"kubernetes":       "Kubernetes",
	"react":            "React",
	"vue":              "Vue",
	"node.js":          "Node.js",
	"postgresql":       "PostgreSQL",
	"aws":              "AWS",
	"sql":              "SQL",
	"microsoft office": "Microsoft Office",
}

// Normalize lower-cases a skill name and collapses whitespace. Two skills are an
// exact match when their normalized forms are equal.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// DisplayName returns a presentable form of a skill name.
func DisplayName(name string) string {
	normalized := Normalize(name)
	if normalized == "" {
		return ""
	}
	if canonical, ok := builtinSynonyms[normalized]; ok {
		normalized = canonical
	}
	if display, ok := displayNames[normalized]; ok {
		return display
	}

	trimmed := strings.Join(strings.Fields(name), " ")
	// Mixed case is assumed intentional
	if trimmed != strings.ToUpper(trimmed) && trimmed != strings.ToLower(trimmed) {
		return trimmed
	}
	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	return normalized
}

// Taxonomy resolves aliases to canonical skill names.
// It is immutable after construction and safe for concurrent use.
type Taxonomy struct {
	canonical map[string]string
}

// NewTaxonomy builds a taxonomy from the built-in alias table plus synonyms,
// given as canonical name -> aliases.
func NewTaxonomy(synonyms map[string][]string) *Taxonomy {
	t := &Taxonomy{canonical: make(map[string]string, len(builtinSynonyms))}
	for alias, canonical := range builtinSynonyms {
		t.canonical[alias] = canonical
	}

	// Sorted so overlapping alias definitions resolve the same way every run
	names := make([]string, 0, len(synonyms))
	for name := range synonyms {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		canonical := Normalize(name)
		if canonical == "" {
			continue
		}
		for _, alias := range synonyms[name] {
			if a := Normalize(alias); a != "" && a != canonical {
				t.canonical[a] = canonical
			}
		}
	}
	return t
}

// Canonical returns the canonical normalized name for a skill.
func (t *Taxonomy) Canonical(name string) string {
	normalized := Normalize(name)
	if t == nil {
		return normalized
	}
	if canonical, ok := t.canonical[normalized]; ok {
		return canonical
	}
	return normalized
}

// Len returns the number of known aliases.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.canonical)
}

// Vocabulary returns the sorted canonical names known to the taxonomy.
func (t *Taxonomy) Vocabulary() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, len(t.canonical))
	for _, canonical := range t.canonical {
		seen[canonical] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
