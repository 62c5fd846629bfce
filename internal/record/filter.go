package record

import "strings"

// FilterOptions are the optional structural predicates and window
// bounds Filter applies, per spec §4.4. The zero value selects every
// line, empty ones included; NewFilterOptions turns on SkipEmpty.
type FilterOptions struct {
	// StartSentinel, if set, is an exact-match line that marks the
	// line just before the data window begins.
	StartSentinel string
	HasStart      bool
	// EndSentinel, if set, is an exact-match line that marks the line
	// just after the data window ends.
	EndSentinel string
	HasEnd      bool

	// SkipEmpty, when true (the NewFilterOptions default), silently skips lines that
	// are empty or whitespace-only instead of emitting them.
	SkipEmpty bool

	Prefix    string
	HasPrefix bool
	Substring string
	HasSubstr bool
	Suffix    string
	HasSuffix bool
	// ExactLength, when HasLength is true, requires every line in the
	// window to have exactly this length.
	ExactLength int
	HasLength   bool

	// FirstLine and LastLine bound the window, 0-indexed and
	// inclusive. Nil means "use the buffer's natural start/end".
	FirstLine *int
	LastLine  *int

	// StopAtError, when true, halts at the first structurally
	// rejected line instead of skipping it and continuing.
	StopAtError bool
}

// NewFilterOptions returns a FilterOptions with SkipEmpty defaulted
// to true, matching spec §4.4's "skip-empty flag (default true)".
// Callers that want empty lines preserved should set SkipEmpty back
// to false on the returned value.
func NewFilterOptions() FilterOptions {
	return FilterOptions{SkipEmpty: true}
}

// FilterResult is the outcome of Filter.
type FilterResult struct {
	Lines   []TextLine
	Success bool
	Skipped int
	Errs    []error
}

// Filter applies opts to lines and returns the surviving subsequence,
// per spec §4.4. The returned Lines are always a prefix-stable
// subsequence of lines[start:end+1] for the resolved window
// [start,end].
func Filter(lines []TextLine, opts FilterOptions) FilterResult {
	n := len(lines)

	start := 0
	if opts.FirstLine != nil {
		start = *opts.FirstLine
	}

	if opts.HasStart {
		searchFrom := start - 1
		if searchFrom < 0 {
			searchFrom = 0
		}
		idx := indexOfLine(lines, opts.StartSentinel, searchFrom)
		if idx == -1 || idx < start-1 {
			return FilterResult{
				Success: false,
				Errs:    []error{ErrFilterWindowMissing{Sentinel: opts.StartSentinel, IsStart: true}},
			}
		}
		start = idx + 1
	}

	end := n - 1
	if opts.LastLine != nil && *opts.LastLine < end {
		end = *opts.LastLine
	}

	if opts.HasEnd {
		idx := indexOfLine(lines, opts.EndSentinel, start)
		if idx != -1 && idx <= end {
			end = idx - 1
		}
	}

	if end < start {
		return FilterResult{
			Success: false,
			Errs:    []error{ErrFilterWindowMissing{IsStart: false}},
		}
	}

	skipEmpty := opts.SkipEmpty

	res := FilterResult{Success: true}
	for i := start; i <= end; i++ {
		line := lines[i]

		if reason, bad := structuralFailure(line.Text, opts); bad {
			res.Success = false
			res.Errs = append(res.Errs, ErrFilterLineRejected{LineRange: lineAt(i), Reason: reason})
			if opts.StopAtError {
				res.Skipped += end - i + 1
				return res
			}
			res.Skipped++
			continue
		}

		if skipEmpty && strings.TrimSpace(line.Text) == "" {
			res.Skipped++
			continue
		}

		res.Lines = append(res.Lines, line)
	}

	return res
}

func structuralFailure(text string, opts FilterOptions) (reason string, bad bool) {
	if opts.HasLength && len(text) != opts.ExactLength {
		return "line length does not match required exact length", true
	}
	if opts.HasPrefix && !strings.HasPrefix(text, opts.Prefix) {
		return "line is missing required prefix", true
	}
	if opts.HasSubstr && !strings.Contains(text, opts.Substring) {
		return "line is missing required substring", true
	}
	if opts.HasSuffix && !strings.HasSuffix(text, opts.Suffix) {
		return "line is missing required suffix", true
	}
	return "", false
}

func indexOfLine(lines []TextLine, want string, from int) int {
	for i := from; i < len(lines); i++ {
		if lines[i].Text == want {
			return i
		}
	}
	return -1
}
