package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
	"github.com/mattn/go-runewidth"

	"karolbroda.com/lyroverlay/internal/colors"
	"karolbroda.com/lyroverlay/internal/lyrics"
	"karolbroda.com/lyroverlay/internal/overlay"
)

const (
	// BigTextSize is the font size from which a line is drawn as ascii art.
	BigTextSize = 28

	defaultDim  = 0.55
	placeholder = "♪"
)

type Renderer struct {
	lg  *lipgloss.Renderer
	dim float64
}

func New(lg *lipgloss.Renderer) *Renderer {
	if lg == nil {
		lg = lipgloss.DefaultRenderer()
	}
	return &Renderer{lg: lg, dim: defaultDim}
}

func (r *Renderer) Render(v overlay.View) string {
	rows := r.renderPrimary(v)

	secondary := v.Secondary.Text()
	if strings.TrimSpace(secondary) != "" {
		rows = append(rows, r.fade(secondary, v.Win.FontSecondary, v.SecondaryState.LineProgress))
	}

	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func (r *Renderer) renderPrimary(v overlay.View) []string {
	font := v.Win.Font
	text := v.Primary.Text()

	if strings.TrimSpace(text) == "" {
		return []string{r.style(font, colors.Dim(colors.Normalize(font.Color), r.dim)).Render(placeholder)}
	}

	if font.Size >= BigTextSize {
		return r.bigText(text, font, v.PrimaryState.LineProgress)
	}

	if v.Win.WithWordsLyrics && v.Primary.IsWordTimed() {
		return []string{r.sweep(v.Primary, v.PrimaryState, font)}
	}

	return []string{r.fade(text, font, v.PrimaryState.LineProgress)}
}

func (r *Renderer) style(font overlay.FontConfig, hex string) lipgloss.Style {
	return r.lg.NewStyle().
		Foreground(lipgloss.Color(hex)).
		Bold(font.Weight == overlay.WeightBold)
}

// sweep colors sung words fully, splits the active word by display cells
// and leaves the rest dimmed.
func (r *Renderer) sweep(line lyrics.Line, hl lyrics.HighlightState, font overlay.FontConfig) string {
	base := colors.Normalize(font.Color)
	sung := r.style(font, base)
	unsung := r.style(font, colors.Dim(base, r.dim))

	var b strings.Builder
	for i, w := range line.Words() {
		if w.Text == "" {
			continue
		}

		switch {
		case !hl.HasActiveWord() && hl.Settled():
			b.WriteString(sung.Render(w.Text))
		case hl.HasActiveWord() && i < hl.ActiveWord:
			b.WriteString(sung.Render(w.Text))
		case i == hl.ActiveWord:
			head, tail := SplitCells(w.Text, hl.WordProgress)
			if head != "" {
				b.WriteString(sung.Render(head))
			}
			if tail != "" {
				b.WriteString(unsung.Render(tail))
			}
		default:
			b.WriteString(unsung.Render(w.Text))
		}
	}

	return b.String()
}

func (r *Renderer) fade(text string, font overlay.FontConfig, progress float64) string {
	base := colors.Normalize(font.Color)
	color := colors.Blend(colors.Dim(base, r.dim), base, easeOutCubic(progress))
	return r.style(font, color).Render(text)
}

func (r *Renderer) bigText(text string, font overlay.FontConfig, progress float64) []string {
	base := colors.Normalize(font.Color)
	sung := r.style(font, base)
	unsung := r.style(font, colors.Dim(base, r.dim))

	rows := figure.NewFigure(text, "", true).Slicify()
	width := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row); w > width {
			width = w
		}
	}

	cut := int(math.Round(progress * float64(width)))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		head, tail := splitAt(row, cut)
		var line strings.Builder
		if head != "" {
			line.WriteString(sung.Render(head))
		}
		if tail != "" {
			line.WriteString(unsung.Render(tail))
		}
		out = append(out, line.String())
	}
	return out
}

// SplitCells cuts text after frac of its display width, never inside a rune.
func SplitCells(text string, frac float64) (string, string) {
	if frac <= 0 {
		return "", text
	}
	if frac >= 1 {
		return text, ""
	}
	total := runewidth.StringWidth(text)
	return splitAt(text, int(math.Round(frac*float64(total))))
}

func splitAt(text string, cells int) (string, string) {
	used := 0
	for i, ch := range text {
		w := runewidth.RuneWidth(ch)
		if used+w > cells {
			return text[:i], text[i:]
		}
		used += w
	}
	return text, ""
}

func easeOutCubic(t float64) float64 {
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return 1 - math.Pow(1-t, 3)
}
