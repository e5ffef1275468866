package service

import (
	"fmt"
	"strings"
	"time"
)

// GenerateSKU builds BRAND-MODEL-SECTION-TTTTTT from the first three letters
// of brand, the first four alphanumerics of model, the section and the last
// six digits of the current epoch milliseconds. Two calls in the same
// millisecond for the same inputs collide; callers dedupe on the store.
func GenerateSKU(brand, model, section string) string {
	return generateSKUAt(brand, model, section, time.Now())
}

func generateSKUAt(brand, model, section string, now time.Time) string {
	brandCode := keepRunes(firstRunes(strings.ToUpper(brand), 3), func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	})
	modelCode := keepRunes(firstRunes(strings.ToUpper(model), 4), func(r rune) bool {
		return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
	})
	stamp := fmt.Sprintf("%06d", now.UnixMilli()%1_000_000)

	return strings.Join([]string{brandCode, modelCode, strings.ToUpper(section), stamp}, "-")
}

// firstRunes truncates before filtering, so "AE-1" yields "AE1".
func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func keepRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
