package lyrics

const NoWord = -1

type HighlightState struct {
	ActiveWord   int
	WordProgress float64
	LineProgress float64
}

func (h HighlightState) HasActiveWord() bool {
	return h.ActiveWord != NoWord
}

func (h HighlightState) Settled() bool {
	return h.LineProgress >= 1
}

func Resolve(line Line, elapsedMs int64) HighlightState {
	t := elapsedMs
	if t < 0 {
		t = 0
	}

	if line.kind == KindWordTimed && len(line.words) > 0 {
		return resolveWords(line.words, uint64(t))
	}

	if line.kind == KindPlain && line.stretchMs > 0 {
		return HighlightState{
			ActiveWord:   NoWord,
			LineProgress: clamp01(float64(t) / float64(line.stretchMs)),
		}
	}

	state := HighlightState{ActiveWord: NoWord}
	if t > 0 {
		state.LineProgress = 1
	}
	return state
}

func resolveWords(words []Word, t uint64) HighlightState {
	var total uint64
	for _, w := range words {
		total += w.DurationMs
	}

	if t >= total {
		return HighlightState{ActiveWord: NoWord, WordProgress: 0, LineProgress: 1}
	}

	var before uint64
	for i, w := range words {
		end := before + w.DurationMs
		// zero-length words never satisfy t < end, so they are passed over as
		// already sung and the division below always has a non-zero divisor
		if t < end {
			return HighlightState{
				ActiveWord:   i,
				WordProgress: clamp01(float64(t-before) / float64(w.DurationMs)),
				LineProgress: clamp01(float64(t) / float64(total)),
			}
		}
		before = end
	}

	return HighlightState{ActiveWord: NoWord, LineProgress: 1}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
