package graph

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	darkText  = "#131313"
	lightText = "#dedede"
)

// languageColor derives a stable RGB color from the language name.
func languageColor(language string) (r, g, b uint8) {
	h := xxhash.Sum64String(language)
	return uint8(h), uint8(h >> 8), uint8(h >> 16)
}

// contrastColor picks the text color readable on an r, g, b background.
func contrastColor(r, g, b uint8) string {
	brightness := float64(r)*0.299 + float64(g)*0.587 + float64(b)*0.114
	if brightness > 150 {
		return darkText
	}
	return lightText
}

func styleFor(language string) LanguageStyle {
	r, g, b := languageColor(language)
	return LanguageStyle{
		Background: fmt.Sprintf("rgb(%d,%d,%d)", r, g, b),
		Color:      contrastColor(r, g, b),
	}
}
