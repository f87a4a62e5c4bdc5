package llmcall

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNewCall(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := NewCall(RecordOptions{RunID: "r1", Property: "Accuracy", Attempt: 2, PromptKey: "extraction.single", Provider: "mock"},
			"[]", 1500*time.Millisecond, nil)
		if c.ID == "" {
			t.Error("ID should be set")
		}
		if !c.Success || c.Error != "" {
			t.Errorf("Success = %v, Error = %q, want success", c.Success, c.Error)
		}
		if c.LatencyMs != 1500 {
			t.Errorf("LatencyMs = %d, want 1500", c.LatencyMs)
		}
		if c.Attempt != 2 || c.RunID != "r1" || c.Property != "Accuracy" {
			t.Errorf("context fields not copied: %+v", c)
		}
	})

	t.Run("failure", func(t *testing.T) {
		c := NewCall(RecordOptions{}, "", 0, errors.New("boom"))
		if c.Success || c.Error != "boom" {
			t.Errorf("Success = %v, Error = %q, want failure boom", c.Success, c.Error)
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("record get list", func(t *testing.T) {
		s := NewStore(10)
		a := NewCall(RecordOptions{RunID: "r1", Property: "A", PromptKey: "extraction.single"}, "x", 0, nil)
		b := NewCall(RecordOptions{RunID: "r1", Property: "B", PromptKey: "extraction.single"}, "", 0, errors.New("fail"))
		c := NewCall(RecordOptions{RunID: "r2", PromptKey: "extraction.multi"}, "y", 0, nil)
		s.RecordCall(a)
		s.RecordCall(b)
		s.RecordCall(c)
		s.RecordCall(nil)

		if s.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", s.Len())
		}
		if got := s.Get(b.ID); got == nil || got.Property != "B" {
			t.Errorf("Get() = %+v, want B", got)
		}
		if s.Get("missing") != nil {
			t.Error("Get(missing) should be nil")
		}

		all := s.List(QueryFilter{})
		if len(all) != 3 || all[0].ID != c.ID {
			t.Errorf("List() should return newest first")
		}

		run := s.List(QueryFilter{RunID: "r1"})
		if len(run) != 2 {
			t.Errorf("List(r1) returned %d, want 2", len(run))
		}

		failed := false
		if got := s.List(QueryFilter{Success: &failed}); len(got) != 1 || got[0].ID != b.ID {
			t.Errorf("List(failed) = %+v, want b", got)
		}

		if got := s.List(QueryFilter{PromptKey: "extraction.single", Limit: 1, Offset: 1}); len(got) != 1 || got[0].ID != a.ID {
			t.Errorf("List(limit/offset) = %+v, want a", got)
		}
	})

	t.Run("evicts oldest", func(t *testing.T) {
		s := NewStore(2)
		for i := 0; i < 3; i++ {
			s.RecordCall(NewCall(RecordOptions{Property: fmt.Sprintf("p%d", i)}, "", 0, nil))
		}
		if s.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", s.Len())
		}
		if got := s.List(QueryFilter{Property: "p0"}); len(got) != 0 {
			t.Error("oldest call should have been evicted")
		}
	})

	t.Run("reset", func(t *testing.T) {
		s := NewStore(0)
		s.RecordCall(NewCall(RecordOptions{}, "", 0, nil))
		s.Reset()
		if s.Len() != 0 {
			t.Errorf("Len() after Reset = %d, want 0", s.Len())
		}
	})

	t.Run("recorder func", func(t *testing.T) {
		var got []*Call
		r := RecorderFunc(func(c *Call) { got = append(got, c) })
		r.RecordCall(NewCall(RecordOptions{}, "", 0, nil))
		r.RecordCall(nil)
		if len(got) != 1 {
			t.Errorf("recorded %d calls, want 1", len(got))
		}
	})
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		if s.Count != 0 || s.AvgLatencyMs != 0 {
			t.Errorf("Summarize(nil) = %+v, want zero", s)
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		store := NewStore(0)
		for i := 1; i <= 20; i++ {
			var err error
			if i%5 == 0 {
				err = errors.New("fail")
			}
			key := "extraction.single"
			if i > 15 {
				key = "extraction.multi"
			}
			store.RecordCall(NewCall(RecordOptions{Provider: "mock", PromptKey: key}, "", time.Duration(i)*time.Millisecond, err))
		}

		s := store.Summary(QueryFilter{})
		if s.Count != 20 || s.SuccessCount != 16 || s.ErrorCount != 4 {
			t.Errorf("counts = %+v", s)
		}
		if s.TotalLatency != 210*time.Millisecond {
			t.Errorf("TotalLatency = %v, want 210ms", s.TotalLatency)
		}
		if s.AvgLatencyMs != 10.5 {
			t.Errorf("AvgLatencyMs = %v, want 10.5", s.AvgLatencyMs)
		}
		if s.P95LatencyMs != 19 {
			t.Errorf("P95LatencyMs = %d, want 19", s.P95LatencyMs)
		}
		if s.ByProvider["mock"] != 20 || s.ByPromptKey["extraction.multi"] != 5 {
			t.Errorf("breakdowns = %v %v", s.ByProvider, s.ByPromptKey)
		}
	})
}
