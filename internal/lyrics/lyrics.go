package lyrics

type Kind int

const (
	KindPlain Kind = iota
	KindWordTimed
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindWordTimed:
		return "word-timed"
	default:
		return "unknown"
	}
}

type Word struct {
	Text       string
	DurationMs uint64
}

type Line struct {
	kind      Kind
	text      string
	words     []Word
	index     uint32
	stretchMs uint64

	StartTime uint64
	Paused    bool
	pausedAt  uint64
}

func NewPlainLine(text string) Line {
	return Line{kind: KindPlain, text: text}
}

func NewWordTimedLine(words []Word, index uint32) Line {
	copied := make([]Word, len(words))
	copy(copied, words)
	return Line{kind: KindWordTimed, words: copied, index: index}
}

func NewStretchedLine(text string, durationMs uint64) Line {
	return Line{kind: KindPlain, text: text, stretchMs: durationMs}
}

func (l Line) Kind() Kind        { return l.kind }
func (l Line) Index() uint32     { return l.index }
func (l Line) WordCount() int    { return len(l.words) }
func (l Line) IsWordTimed() bool { return l.kind == KindWordTimed && len(l.words) > 0 }

func (l Line) Words() []Word {
	if len(l.words) == 0 {
		return nil
	}
	out := make([]Word, len(l.words))
	copy(out, l.words)
	return out
}

func (l Line) Text() string {
	if l.kind == KindPlain {
		return l.text
	}
	total := 0
	for _, w := range l.words {
		total += len(w.Text)
	}
	buf := make([]byte, 0, total)
	for _, w := range l.words {
		buf = append(buf, w.Text...)
	}
	return string(buf)
}

func (l Line) FullDuration() uint64 {
	switch l.kind {
	case KindWordTimed:
		var sum uint64
		for _, w := range l.words {
			sum += w.DurationMs
		}
		return sum
	default:
		return l.stretchMs
	}
}

func (l *Line) Restart(nowMs uint64) {
	l.StartTime = nowMs
	l.Paused = false
	l.pausedAt = 0
}

// Seek places the playhead positionMs into the line. StartTime cannot go
// below zero, so a position later than nowMs is clamped to elapsed = nowMs.
func (l *Line) Seek(nowMs uint64, positionMs uint64, paused bool) {
	if positionMs > nowMs {
		l.StartTime = 0
	} else {
		l.StartTime = nowMs - positionMs
	}
	l.Paused = paused
	l.pausedAt = nowMs
}

func (l *Line) SetPaused(nowMs uint64, paused bool) {
	if l.Paused == paused {
		return
	}
	if paused {
		l.Paused = true
		l.pausedAt = nowMs
		return
	}
	frozen := uint64(l.Elapsed(nowMs))
	l.Paused = false
	if frozen > nowMs {
		l.StartTime = 0
		return
	}
	l.StartTime = nowMs - frozen
}

func (l Line) Elapsed(nowMs uint64) int64 {
	ref := nowMs
	if l.Paused {
		ref = l.pausedAt
	}
	if ref <= l.StartTime {
		return 0
	}
	return int64(ref - l.StartTime)
}
