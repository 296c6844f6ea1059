package lyrics

import (
	"math"
	"testing"
)

func helloWorld() Line {
	return NewWordTimedLine([]Word{
		{Text: "Hello", DurationMs: 500},
		{Text: "world", DurationMs: 500},
	}, 3)
}

func almostEqual(a float64, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestResolveWordTimed(t *testing.T) {
	line := helloWorld()

	tests := []struct {
		name         string
		elapsed      int64
		wantWord     int
		wantWordProg float64
		wantLineProg float64
	}{
		{"start", 0, 0, 0, 0},
		{"first word half", 250, 0, 0.5, 0.25},
		{"word boundary", 500, 1, 0, 0.5},
		{"second word half", 750, 1, 0.5, 0.75},
		{"exact end", 1000, NoWord, 0, 1},
		{"past end", 5000, NoWord, 0, 1},
		{"negative clamps", -40, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(line, tt.elapsed)
			if got.ActiveWord != tt.wantWord {
				t.Errorf("ActiveWord = %d, want %d", got.ActiveWord, tt.wantWord)
			}
			if !almostEqual(got.WordProgress, tt.wantWordProg) {
				t.Errorf("WordProgress = %v, want %v", got.WordProgress, tt.wantWordProg)
			}
			if !almostEqual(got.LineProgress, tt.wantLineProg) {
				t.Errorf("LineProgress = %v, want %v", got.LineProgress, tt.wantLineProg)
			}
		})
	}
}

func TestResolvePlainLine(t *testing.T) {
	line := NewPlainLine("just text")

	at0 := Resolve(line, 0)
	if at0.LineProgress != 0 || at0.HasActiveWord() {
		t.Errorf("at t=0 got %+v, want not started", at0)
	}

	for _, elapsed := range []int64{1, 10, 100000} {
		got := Resolve(line, elapsed)
		if got.LineProgress != 1 {
			t.Errorf("t=%d LineProgress = %v, want 1", elapsed, got.LineProgress)
		}
		if got.HasActiveWord() {
			t.Errorf("t=%d plain line reported active word %d", elapsed, got.ActiveWord)
		}
	}
}

func TestResolveEmptyWordsMatchesEmptyPlain(t *testing.T) {
	empty := NewWordTimedLine(nil, 0)
	plain := NewPlainLine("")

	for _, elapsed := range []int64{-5, 0, 1, 700} {
		if Resolve(empty, elapsed) != Resolve(plain, elapsed) {
			t.Errorf("t=%d empty word line %+v differs from empty plain %+v",
				elapsed, Resolve(empty, elapsed), Resolve(plain, elapsed))
		}
	}
}

func TestResolveZeroDurationWord(t *testing.T) {
	line := NewWordTimedLine([]Word{
		{Text: "a", DurationMs: 100},
		{Text: "-", DurationMs: 0},
		{Text: "b", DurationMs: 100},
	}, 0)

	got := Resolve(line, 100)
	if got.ActiveWord != 2 {
		t.Fatalf("ActiveWord = %d, want 2 (zero-length word skipped)", got.ActiveWord)
	}
	if got.WordProgress != 0 {
		t.Errorf("WordProgress = %v, want 0", got.WordProgress)
	}

	for elapsed := int64(0); elapsed <= 300; elapsed++ {
		h := Resolve(line, elapsed)
		if math.IsNaN(h.WordProgress) || math.IsInf(h.WordProgress, 0) {
			t.Fatalf("t=%d produced non-finite progress", elapsed)
		}
	}
}

func TestResolveAllZeroDurations(t *testing.T) {
	line := NewWordTimedLine([]Word{{Text: "x"}, {Text: "y"}}, 0)

	got := Resolve(line, 0)
	if got.HasActiveWord() || got.LineProgress != 1 {
		t.Errorf("got %+v, want fully sung", got)
	}
}

func TestResolveActiveWordMonotonic(t *testing.T) {
	line := NewWordTimedLine([]Word{
		{Text: "one ", DurationMs: 120},
		{Text: "", DurationMs: 0},
		{Text: "two ", DurationMs: 333},
		{Text: "three", DurationMs: 47},
		{Text: "!", DurationMs: 0},
	}, 0)

	rank := func(h HighlightState) int {
		if !h.HasActiveWord() {
			return line.WordCount()
		}
		return h.ActiveWord
	}

	prev := -1
	prevLine := 0.0
	for elapsed := int64(0); elapsed <= 600; elapsed++ {
		h := Resolve(line, elapsed)
		if rank(h) < prev {
			t.Fatalf("t=%d active word regressed from %d to %d", elapsed, prev, rank(h))
		}
		if h.LineProgress < prevLine {
			t.Fatalf("t=%d line progress regressed", elapsed)
		}
		prev = rank(h)
		prevLine = h.LineProgress
	}
}

func TestResolveStretchedLine(t *testing.T) {
	line := NewStretchedLine("translation", 1000)

	if got := Resolve(line, 250); !almostEqual(got.LineProgress, 0.25) || got.HasActiveWord() {
		t.Errorf("t=250 got %+v", got)
	}
	if got := Resolve(line, 2000); got.LineProgress != 1 {
		t.Errorf("t=2000 LineProgress = %v, want 1", got.LineProgress)
	}
}

func TestResolveDeterministic(t *testing.T) {
	line := helloWorld()
	for elapsed := int64(0); elapsed < 1200; elapsed += 37 {
		if Resolve(line, elapsed) != Resolve(line, elapsed) {
			t.Fatalf("t=%d not deterministic", elapsed)
		}
	}
}
