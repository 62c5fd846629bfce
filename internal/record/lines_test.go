package record

import "testing"

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single_no_terminator", in: "abc", want: []string{"abc"}},
		{name: "lf_terminated", in: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf_terminated", in: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "lone_cr_is_data", in: "a\rb\n", want: []string{"a\rb"}},
		{name: "trailing_unterminated", in: "a\nb", want: []string{"a", "b"}},
		{name: "blank_lines_preserved", in: "a\n\nb\n", want: []string{"a", "", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitLines([]byte(tc.in))
			var gotStr []string
			for _, l := range got {
				gotStr = append(gotStr, string(l))
			}
			checkDiff(t, "split lines", gotStr, tc.want)
		})
	}
}
