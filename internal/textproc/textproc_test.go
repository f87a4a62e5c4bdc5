package textproc

import (
	"strings"
	"testing"

	"github.com/jackzampolin/sift/internal/config"
)

func newTestProcessor() *Processor {
	return New(config.DefaultExtraction())
}

func TestClean(t *testing.T) {
	p := newTestProcessor()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tags stripped", "Hello <b>world</b>", "Hello world"},
		{"script content dropped", "<script>alert(1)</script>Results follow.", "Results follow."},
		{"entities unescaped", "Fish &amp; Chips", "Fish & Chips"},
		{"whitespace collapsed", "  a\n\n b\t\tc  ", "a b c"},
		{"control chars removed", "ab\x00c\u200bd", "abcd"},
		{"nfc normalized", "cafe\u0301", "caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractSentences(t *testing.T) {
	p := newTestProcessor()

	t.Run("splits on terminal punctuation before uppercase", func(t *testing.T) {
		got := p.ExtractSentences("The model reached 95% accuracy. We used ImageNet for training! Was it enough? Maybe.")
		want := []string{
			"The model reached 95% accuracy.",
			"We used ImageNet for training!",
			"Was it enough?",
		}
		if len(got) != len(want) {
			t.Fatalf("ExtractSentences() = %q, want %q", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("sentence[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("does not split before lowercase", func(t *testing.T) {
		got := p.ExtractSentences("Values are approx. three times larger than before.")
		if len(got) != 1 {
			t.Errorf("ExtractSentences() = %q, want one sentence", got)
		}
	})

	t.Run("decimal numbers stay intact", func(t *testing.T) {
		got := p.ExtractSentences("Accuracy reached 95.3 percent overall.")
		if len(got) != 1 || got[0] != "Accuracy reached 95.3 percent overall." {
			t.Errorf("ExtractSentences() = %q", got)
		}
	})

	t.Run("filters by length and letters", func(t *testing.T) {
		cfg := config.DefaultExtraction()
		cfg.MaxSentenceLength = 40
		p := New(cfg)

		got := p.ExtractSentences("1234567890 12345. Tiny. " + strings.Repeat("Long words here ", 5) + ". Just the right size.")
		if len(got) != 1 || got[0] != "Just the right size." {
			t.Errorf("ExtractSentences() = %q, want [Just the right size.]", got)
		}
	})
}

func TestProcessSections(t *testing.T) {
	t.Run("orders by name and records stats", func(t *testing.T) {
		p := newTestProcessor()
		sections := p.ProcessSections(map[string]string{
			"results":  "We report <i>strong</i> results here. Accuracy: 95.3% on the test split.",
			"abstract": "This paper studies extraction pipelines.",
			"empty":    "",
		})

		names := sections.Names()
		if strings.Join(names, ",") != "abstract,empty,results" {
			t.Fatalf("Names() = %v, want lexical order", names)
		}

		results := sections[2]
		if len(results.Sentences) != 2 {
			t.Errorf("len(Sentences) = %d, want 2: %q", len(results.Sentences), results.Sentences)
		}
		if results.Stats.SentenceCount != len(results.Sentences) {
			t.Errorf("Stats.SentenceCount = %d, want %d", results.Stats.SentenceCount, len(results.Sentences))
		}
		if results.Stats.ProcessedLength >= results.Stats.OriginalLength {
			t.Errorf("ProcessedLength = %d should be below OriginalLength %d after tag stripping",
				results.Stats.ProcessedLength, results.Stats.OriginalLength)
		}
		if results.Hash == "" {
			t.Error("Hash should be set")
		}

		empty := sections[1]
		if empty.Sentences == nil || len(empty.Sentences) != 0 {
			t.Errorf("empty section Sentences = %#v, want empty slice", empty.Sentences)
		}
	})

	t.Run("truncates oversized content", func(t *testing.T) {
		cfg := config.DefaultExtraction()
		cfg.MaxSectionSize = 20
		p := New(cfg)

		sec := p.ProcessSection("body", strings.Repeat("abcde ", 10))
		if !strings.HasSuffix(sec.Content, "...") {
			t.Errorf("Content = %q, want ellipsis suffix", sec.Content)
		}
		if sec.Stats.ProcessedLength != 23 {
			t.Errorf("ProcessedLength = %d, want 23", sec.Stats.ProcessedLength)
		}
	})

	t.Run("caps sentence count", func(t *testing.T) {
		cfg := config.DefaultExtraction()
		cfg.MaxSentencesPerSection = 2
		p := New(cfg)

		sec := p.ProcessSection("body", "First sentence here. Second sentence here. Third sentence here.")
		if len(sec.Sentences) != 2 {
			t.Errorf("len(Sentences) = %d, want 2", len(sec.Sentences))
		}
	})
}

func TestRollingHash(t *testing.T) {
	if got := RollingHash(""); got != "0" {
		t.Errorf("RollingHash(\"\") = %q, want 0", got)
	}
	if got := RollingHash("a"); got != "2p" {
		t.Errorf("RollingHash(\"a\") = %q, want 2p", got)
	}

	prefix := strings.Repeat("x", 100)
	if RollingHash(prefix+"A") != RollingHash(prefix+"B") {
		t.Error("hash should only cover the first 100 runes")
	}
	if RollingHash("alpha") == RollingHash("beta") {
		t.Error("different prefixes should hash differently")
	}
}
