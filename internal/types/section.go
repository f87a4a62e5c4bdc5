package types

// SectionStats records how much a section shrank during processing.
type SectionStats struct {
	OriginalLength  int `json:"originalLength" yaml:"originalLength"`
	ProcessedLength int `json:"processedLength" yaml:"processedLength"`
	SentenceCount   int `json:"sentenceCount" yaml:"sentenceCount"`
}

// Section is a named, cleaned block of document text with a bounded sentence list.
type Section struct {
	Name      string       `json:"name" yaml:"name"`
	Content   string       `json:"content" yaml:"content"`
	Sentences []string     `json:"sentences" yaml:"sentences"`
	Hash      string       `json:"hash" yaml:"hash"`
	Stats     SectionStats `json:"stats" yaml:"stats"`
}

// Sections is an ordered set of processed sections.
type Sections []Section

// Names returns section names in order.
func (s Sections) Names() []string {
	names := make([]string, len(s))
	for i, sec := range s {
		names[i] = sec.Name
	}
	return names
}

// SentenceCount returns the total number of sentences across all sections.
func (s Sections) SentenceCount() int {
	n := 0
	for _, sec := range s {
		n += len(sec.Sentences)
	}
	return n
}
