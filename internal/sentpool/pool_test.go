package sentpool

import (
	"sync"
	"testing"
)

func TestHash(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		if Hash("The cat sat.") != Hash("the   cat   sat.  ") {
			t.Error("Hash should ignore case and whitespace differences")
		}
		if Hash("\tThe cat\nsat.") != Hash("the cat sat.") {
			t.Error("Hash should treat tabs and newlines as spaces")
		}
	})

	t.Run("distinguishes content", func(t *testing.T) {
		if Hash("The cat sat.") == Hash("The dog sat.") {
			t.Error("different sentences should hash differently")
		}
	})

	t.Run("fixed width", func(t *testing.T) {
		for _, s := range []string{"", "a", "The cat sat."} {
			if got := len(Hash(s)); got != 16 {
				t.Errorf("len(Hash(%q)) = %d, want 16", s, got)
			}
		}
	})
}

func TestPool(t *testing.T) {
	t.Run("mark used then clear", func(t *testing.T) {
		p := New()
		s := "Accuracy: 95.3% on the test split."

		if !p.IsAvailable(s) {
			t.Fatal("fresh pool should have every sentence available")
		}

		h := p.MarkUsed(s, "p1")
		if h != Hash(s) {
			t.Errorf("MarkUsed() = %q, want %q", h, Hash(s))
		}
		if p.IsAvailable(s) {
			t.Error("IsAvailable() = true after MarkUsed")
		}
		if p.IsAvailable("accuracy:   95.3% ON the test split.") {
			t.Error("normalized variant should also be unavailable")
		}

		p.Clear()
		if !p.IsAvailable(s) {
			t.Error("IsAvailable() = false after Clear")
		}
	})

	t.Run("first claim wins", func(t *testing.T) {
		p := New()
		p.MarkUsed("Shared sentence.", "p1")
		p.MarkUsed("shared sentence.", "p2")

		owner, ok := p.Owner("Shared sentence.")
		if !ok || owner != "p1" {
			t.Errorf("Owner() = %q, %v, want p1, true", owner, ok)
		}
	})

	t.Run("stats", func(t *testing.T) {
		p := New()
		p.MarkUsed("One sentence.", "p1")
		p.MarkUsed("Two sentence.", "p1")
		p.MarkUsed("Three sentence.", "p2")

		s := p.Stats()
		if s.TotalUsed != 3 {
			t.Errorf("TotalUsed = %d, want 3", s.TotalUsed)
		}
		if s.ByProperty["p1"] != 2 || s.ByProperty["p2"] != 1 {
			t.Errorf("ByProperty = %v, want p1:2 p2:1", s.ByProperty)
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		p := New()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				p.MarkUsed("Concurrent sentence.", "p")
			}()
			go func() {
				defer wg.Done()
				p.IsAvailable("Concurrent sentence.")
			}()
		}
		wg.Wait()

		if p.Stats().TotalUsed != 1 {
			t.Errorf("TotalUsed = %d, want 1", p.Stats().TotalUsed)
		}
	})
}
