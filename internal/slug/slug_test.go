package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple title", in: "Hello World", want: "hello-world"},
		{name: "punctuation runs", in: "Go -- 1.24: what's new?!", want: "go-1-24-what-s-new"},
		{name: "leading and trailing noise", in: "  ***Release notes***  ", want: "release-notes"},
		{name: "accents folded", in: "Crème Brûlée", want: "creme-brulee"},
		{name: "already a slug", in: "hello-world-2", want: "hello-world-2"},
		{name: "underscores split", in: "snake_case_title", want: "snake-case-title"},
		{name: "no ascii content", in: "日本語", want: ""},
		{name: "mixed scripts", in: "Go 语言 入门", want: "go"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Make(tt.in)
			if got != tt.want {
				t.Fatalf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeIsIdempotent(t *testing.T) {
	inputs := []string{"Hello World", "A  b--c", "Crème Brûlée", "--x--", "ÀÉÎ õü 42"}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Fatalf("Make not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("hello-world", 2); got != "hello-world-2" {
		t.Fatalf("unexpected suffix slug %q", got)
	}
	if got := WithSuffix("a", 13); got != "a-13" {
		t.Fatalf("unexpected suffix slug %q", got)
	}
}
