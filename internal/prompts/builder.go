package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/jackzampolin/sift/internal/types"
	"github.com/jackzampolin/sift/internal/typeinfer"
)

//go:embed single.tmpl multi.tmpl sections.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "*.tmpl"))

// typeHints are appended to each property so the model knows what shape to look for.
var typeHints = map[types.ExtractionType]string{
	types.TypeNumber:  "Look for measurements, statistics, scores, counts and percentages. Return the bare number without units.",
	types.TypeDate:    "Look for years and calendar dates. Prefer ISO form (YYYY or YYYY-MM-DD).",
	types.TypeURL:     "Look for links and repository or dataset addresses. Return full URLs including the scheme.",
	types.TypeBoolean: "Answer true or false, and only when a sentence states it explicitly.",
	types.TypeEmail:   "Look for email addresses.",
	types.TypeText:    "Look for names, methods, datasets and short descriptive phrases. Keep each value short.",
}

// DefaultSentenceLimit bounds per-section sentences shown when none is configured.
const DefaultSentenceLimit = 20

// Builder renders single- and multi-property extraction prompts.
type Builder struct {
	sentenceLimit int
}

// NewBuilder creates a Builder that shows at most sentenceLimit sentences per section.
func NewBuilder(sentenceLimit int) *Builder {
	if sentenceLimit <= 0 {
		sentenceLimit = DefaultSentenceLimit
	}
	return &Builder{sentenceLimit: sentenceLimit}
}

type sectionView struct {
	Name      string
	Sentences []string
	Omitted   int
}

type propertyView struct {
	Key         string
	Description string
	Type        types.ExtractionType
	Hint        string
}

// Single renders the prompt for one property.
func (b *Builder) Single(sections types.Sections, p types.Property) (string, error) {
	data := struct {
		Property propertyView
		Sections []sectionView
	}{
		Property: viewProperty(p),
		Sections: b.viewSections(sections),
	}
	return render("single.tmpl", data)
}

// Multi renders one prompt covering every property.
func (b *Builder) Multi(sections types.Sections, props []types.Property) (string, error) {
	views := make([]propertyView, len(props))
	for i, p := range props {
		views[i] = viewProperty(p)
	}
	data := struct {
		Properties []propertyView
		Sections   []sectionView
	}{
		Properties: views,
		Sections:   b.viewSections(sections),
	}
	return render("multi.tmpl", data)
}

// Hint returns the type hint used for t.
func Hint(t types.ExtractionType) string {
	if h, ok := typeHints[t]; ok {
		return h
	}
	return typeHints[types.TypeText]
}

// Embedded lists the embedded prompt templates with their hashes and variables.
func Embedded() []EmbeddedPrompt {
	entries := []EmbeddedPrompt{
		{Key: SinglePromptKey, File: "single.tmpl", Description: "Single-property extraction prompt"},
		{Key: MultiPromptKey, File: "multi.tmpl", Description: "Batched multi-property extraction prompt"},
	}
	for i := range entries {
		raw, err := templateFS.ReadFile(entries[i].File)
		if err != nil {
			continue
		}
		entries[i].Text = string(raw)
		entries[i].Hash = HashText(entries[i].Text)
		entries[i].Variables = ExtractVariables(entries[i].Text)
	}
	return entries
}

func viewProperty(p types.Property) propertyView {
	t := typeinfer.Infer(p)
	return propertyView{
		Key:         p.Key(),
		Description: p.Description,
		Type:        t,
		Hint:        Hint(t),
	}
}

func (b *Builder) viewSections(sections types.Sections) []sectionView {
	views := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		if len(s.Sentences) == 0 {
			continue
		}
		v := sectionView{Name: s.Name, Sentences: s.Sentences}
		if len(v.Sentences) > b.sentenceLimit {
			v.Omitted = len(v.Sentences) - b.sentenceLimit
			v.Sentences = v.Sentences[:b.sentenceLimit]
		}
		views = append(views, v)
	}
	return views
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
