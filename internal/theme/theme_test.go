package theme

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"aurora", "aurora"},
		{" obsidian ", "obsidian"},
		{"", Default},
		{"hot-pink", Default},
		{"Aurora", Default},
	}
	for _, tt := range tests {
		if got := Resolve(tt.input); got != tt.expected {
			t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 20 {
		t.Fatalf("len(Names()) = %d, want 20", len(names))
	}
	if names[0] != Default {
		t.Errorf("Names()[0] = %q, want %q", names[0], Default)
	}
}

func TestPaletteForUnknownFallsBack(t *testing.T) {
	if got, want := PaletteFor("nope"), PaletteFor(Default); got != want {
		t.Errorf("PaletteFor(nope) = %+v, want %+v", got, want)
	}
}
