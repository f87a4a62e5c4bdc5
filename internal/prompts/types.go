// Package prompts renders extraction prompts from embedded templates.
//
// Embedded .tmpl files are the single source of truth. Each template is
// exposed as an EmbeddedPrompt with a content hash so that recorded model
// calls can be traced back to the exact prompt version that produced them.
package prompts

// Prompt keys
const (
	SinglePromptKey = "extraction.single"
	MultiPromptKey  = "extraction.multi"
)

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	// Key is hierarchical, e.g. extraction.single.
	Key         string   `json:"key" yaml:"key"`
	File        string   `json:"file" yaml:"file"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Variables   []string `json:"variables,omitempty" yaml:"variables,omitempty"`
	// Hash is the SHA256 of Text, for change detection.
	Hash string `json:"hash" yaml:"hash"`
	Text string `json:"-" yaml:"-"`
}
