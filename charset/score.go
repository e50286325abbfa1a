package charset

import (
	"strings"
	"unicode"
)

// Score weights used by the readability heuristics.
const (
	baseScore          = 100
	replacementPenalty = 50
	controlPenalty     = 10
	cjkBonus           = 50
	delimiterBonus     = 20
	highReadableBonus  = 30
	readableBonus      = 20
	lowReadablePenalty = 30
)

const commonPunctuation = " ,.;:!?()[]{}\"'-_/\\@#$%^&*+=<>"

// Score rates how plausible text is as the result of decoding with the
// right charset. Higher is better; the result is never negative.
func Score(text string) int {
	score := baseScore

	var (
		length       int
		replacements int
		controls     int
		readable     int
		hasCJK       bool
	)
	for _, r := range text {
		length++
		if r == unicode.ReplacementChar {
			replacements++
		}
		if isControl(r) {
			controls++
		}
		if IsCJK(r) {
			hasCJK = true
		}
		if isReadable(r) {
			readable++
		}
	}

	score -= replacements * replacementPenalty

	if controls > length/100 {
		score -= controls * controlPenalty
	}

	if hasCJK {
		score += cjkBonus
	}

	if strings.ContainsAny(text, ",\t|") {
		score += delimiterBonus
	}

	if length > 0 {
		ratio := float64(readable) / float64(length)
		switch {
		case ratio > 0.95:
			score += highReadableBonus
		case ratio > 0.90:
			score += readableBonus
		case ratio < 0.70:
			score -= lowReadablePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

// IsCJK reports whether r is a CJK unified ideograph in the common range
// U+4E00 to U+9FA5.
func IsCJK(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FA5
}

// ContainsCJK reports whether s has at least one CJK ideograph.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if IsCJK(r) {
			return true
		}
	}
	return false
}

// isControl matches ISO control characters other than tab, CR and LF.
func isControl(r rune) bool {
	if r == '\t' || r == '\r' || r == '\n' {
		return false
	}
	return r <= 0x1F || (r >= 0x7F && r <= 0x9F)
}

func isReadable(r rune) bool {
	switch {
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return true
	case r == '\n' || r == '\r' || r == '\t':
		return true
	case IsCJK(r):
		return true
	}
	return strings.ContainsRune(commonPunctuation, r)
}
