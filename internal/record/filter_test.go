package record

import "testing"

func textLines(ss ...string) []TextLine {
	out := make([]TextLine, len(ss))
	for i, s := range ss {
		out[i] = TextLine{Text: s}
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("skip_empty_by_default", func(t *testing.T) {
		lines := textLines("a", "", "  ", "b")
		res := Filter(lines, NewFilterOptions())
		if !res.Success {
			t.Fatalf("Filter failed: %v", res.Errs)
		}
		var got []string
		for _, l := range res.Lines {
			got = append(got, l.Text)
		}
		checkDiff(t, "filtered lines", got, []string{"a", "b"})
	})

	t.Run("sentinel_window", func(t *testing.T) {
		lines := textLines("preamble", "BEGIN", "a", "b", "END", "trailer")
		opts := NewFilterOptions()
		opts.HasStart, opts.StartSentinel = true, "BEGIN"
		opts.HasEnd, opts.EndSentinel = true, "END"
		res := Filter(lines, opts)
		if !res.Success {
			t.Fatalf("Filter failed: %v", res.Errs)
		}
		var got []string
		for _, l := range res.Lines {
			got = append(got, l.Text)
		}
		checkDiff(t, "windowed lines", got, []string{"a", "b"})
	})

	t.Run("missing_start_sentinel_fails", func(t *testing.T) {
		lines := textLines("a", "b")
		opts := NewFilterOptions()
		opts.HasStart, opts.StartSentinel = true, "NOPE"
		res := Filter(lines, opts)
		if res.Success {
			t.Fatalf("expected failure, got success")
		}
	})

	t.Run("exact_length_rejects", func(t *testing.T) {
		lines := textLines("ab", "abc", "de")
		opts := NewFilterOptions()
		opts.HasLength, opts.ExactLength = true, 2
		res := Filter(lines, opts)
		if res.Success {
			t.Fatalf("expected failure due to rejected line")
		}
		if res.Skipped != 1 {
			t.Errorf("Skipped = %d, want 1", res.Skipped)
		}
	})

	t.Run("stop_at_error_skips_remainder", func(t *testing.T) {
		lines := textLines("ab", "xxx", "cd", "ef")
		opts := NewFilterOptions()
		opts.HasLength, opts.ExactLength = true, 2
		opts.StopAtError = true
		res := Filter(lines, opts)
		if res.Success {
			t.Fatalf("expected failure")
		}
		if len(res.Lines) != 1 {
			t.Errorf("got %d surviving lines, want 1 (only the line before the bad one)", len(res.Lines))
		}
	})
}
