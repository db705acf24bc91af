package layout

import "strings"

// Measure estimates the rendered width in millimeters of a single line of
// text at the given font size in points. Composition must be identical on
// every host, so the engine never asks a renderer for glyph metrics; it
// uses this deterministic estimator instead.
type Measure func(text string, size float64) float64

// ptToMM converts a point length to millimeters (1pt = 1/72 inch).
const ptToMM = 25.4 / 72

// ApproxHelvetica estimates line width using the average Helvetica glyph
// advance of roughly half the em size. Slightly generous for lowercase
// body text, which errs toward wrapping early rather than overflowing
// the column.
func ApproxHelvetica(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * ptToMM * 0.5
}

// wrapText breaks text into lines no wider than maxWidth. Breaks happen
// only at spaces, except when a single word alone exceeds maxWidth, in
// which case the word is split at the largest fitting rune boundary.
func wrapText(text string, maxWidth float64, size float64, measure Measure) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		for measure(word, size) > maxWidth {
			// Flush whatever is pending so the oversized word starts
			// on its own line.
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			head, tail := splitRunes(word, maxWidth, size, measure)
			lines = append(lines, head)
			word = tail
		}

		switch {
		case current == "":
			current = word
		case measure(current+" "+word, size) <= maxWidth:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// splitRunes cuts word at the largest prefix fitting maxWidth, always
// consuming at least one rune so progress is guaranteed.
func splitRunes(word string, maxWidth float64, size float64, measure Measure) (head, tail string) {
	runes := []rune(word)
	cut := 1
	for i := 2; i <= len(runes); i++ {
		if measure(string(runes[:i]), size) > maxWidth {
			break
		}
		cut = i
	}
	return string(runes[:cut]), string(runes[cut:])
}
