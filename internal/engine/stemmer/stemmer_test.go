package stemmer

import "testing"

func TestStemClassicVectors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"caresses", "caress"},
		{"ponies", "poni"},
		{"ties", "ti"},
		{"agreed", "agre"},
		{"caress", "caress"},
		{"cats", "cat"},
		{"running", "run"},
		{"flying", "fly"},
		{"jumped", "jump"},
		{"jumps", "jump"},
		{"motoring", "motor"},
		{"sing", "sing"},
		{"plastered", "plaster"},
		{"happy", "happi"},
		{"happily", "happili"},
		{"adjustment", "adjust"},
		{"adoption", "adopt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Stem(tt.in); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStemIrregularForms(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"went", "go"},
		{"ran", "run"},
		{"children", "child"},
		{"mice", "mouse"},
		{"feet", "foot"},
		{"Went", "go"}, // lookup is case-insensitive
	}
	for _, tt := range tests {
		if got := Stem(tt.in); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStemDeterminism(t *testing.T) {
	words := []string{"caresses", "relational", "went", "optimization", "dog"}
	for _, w := range words {
		first := Stem(w)
		for i := 0; i < 50; i++ {
			if got := Stem(w); got != first {
				t.Fatalf("Stem(%q) changed between calls: %q vs %q", w, first, got)
			}
		}
	}
}

func TestStemShortWordsUnchanged(t *testing.T) {
	for _, w := range []string{"a", "is", "ox"} {
		if got := Stem(w); got != w {
			t.Errorf("Stem(%q) = %q, want unchanged", w, got)
		}
	}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		stem string
		want int
	}{
		{"tr", 0},
		{"ee", 0},
		{"tree", 0},
		{"y", 0},
		{"by", 0},
		{"trouble", 1},
		{"oats", 1},
		{"trees", 1},
		{"ivy", 1},
		{"troubles", 2},
		{"private", 2},
		{"oaten", 2},
	}
	for _, tt := range tests {
		if got := measure(tt.stem); got != tt.want {
			t.Errorf("measure(%q) = %d, want %d", tt.stem, got, tt.want)
		}
	}
}

func TestEndsCVC(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hop", true},
		{"fil", true},
		{"wil", true},
		{"snow", false}, // final w excluded
		{"box", false},  // final x excluded
		{"tray", false}, // final y excluded
		{"fail", false}, // vowel-vowel-consonant
		{"ab", false},
	}
	for _, tt := range tests {
		if got := endsCVC(tt.in); got != tt.want {
			t.Errorf("endsCVC(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEndsDoubleConsonant(t *testing.T) {
	if !endsDoubleConsonant("hopp") {
		t.Error("expected hopp to end in a double consonant")
	}
	if endsDoubleConsonant("hope") {
		t.Error("hope should not count as a double consonant ending")
	}
	if endsDoubleConsonant("see") {
		t.Error("a doubled vowel is not a double consonant")
	}
}
