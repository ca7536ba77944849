package render

import "testing"

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		items []int32
		sep   string
		want  string
	}{
		{"empty", nil, ",", ""},
		{"empty_slice", []int32{}, ",", ""},
		{"single", []int32{1}, ",", "1"},
		{"multi", []int32{1, 2, 3}, ", ", "1, 2, 3"},
		{"no_trailing_sep", []int32{1, 2}, ",", "1,2"},
		{"negative", []int32{-1, 0, 1}, ";", "-1;0;1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := List(tt.items, tt.sep); got != tt.want {
				t.Errorf("List(%v, %q) = %q, want %q", tt.items, tt.sep, got, tt.want)
			}
		})
	}
}

func TestList_Strings(t *testing.T) {
	got := List([]string{"a", "b"}, " | ")
	if got != "a | b" {
		t.Errorf("List = %q, want %q", got, "a | b")
	}
}

func TestTokens_Restartable(t *testing.T) {
	seq := Tokens([]int32{1, 2, 3})

	for pass := 0; pass < 2; pass++ {
		var got []string
		for tok := range seq {
			got = append(got, tok)
		}
		want := []string{"1", "2", "3"}
		if len(got) != len(want) {
			t.Fatalf("pass %d: %d tokens, want %d", pass, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("pass %d: token[%d] = %q, want %q", pass, i, got[i], want[i])
			}
		}
	}
}

func TestTokens_EarlyStop(t *testing.T) {
	n := 0
	for range Tokens([]int32{1, 2, 3}) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("consumed %d tokens, want 2", n)
	}
}

// Token count must be invariant under any length-preserving map.
func TestTokens_CountMatchesAfterMap(t *testing.T) {
	xs := []int32{5, 10, 15, 20}
	mapped := make([]int32, len(xs))
	for i, v := range xs {
		mapped[i] = v * 3
	}

	count := func(items []int32) int {
		n := 0
		for range Tokens(items) {
			n++
		}
		return n
	}

	if count(xs) != count(mapped) {
		t.Errorf("token counts differ: %d vs %d", count(xs), count(mapped))
	}
}
