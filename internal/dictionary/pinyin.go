package dictionary

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// combining marks for the first four tones
var toneMarks = []string{
	"\u0304",
	"\u0301",
	"\u030c",
	"\u0300",
}

// ToneMarked converts a numbered pinyin syllable like "ni3" into "nǐ".
// Syllables without a trailing tone number, or without a vowel or nasal to mark, are returned as is.
// Tones 5 and 0 are the neutral tone, which has no mark.
func ToneMarked(syllable string) string {
	if syllable == "" {
		return syllable
	}
	last := syllable[len(syllable)-1]
	if last < '0' || '5' < last {
		return syllable
	}
	base := strings.ToLower(syllable[:len(syllable)-1])
	if base == "" || !isASCIILetters(base) {
		return syllable
	}
	base = strings.ReplaceAll(base, "u:", "v")
	base = strings.ReplaceAll(base, "v", "ü")

	tone := int(last - '1')
	if tone < 0 || len(toneMarks) <= tone {
		return norm.NFC.String(base)
	}

	index := markedVowel(base)
	if index < 0 {
		// syllabic nasals like "m2", "n3" and "ng2" carry the mark on the nasal
		index = strings.IndexAny(base, "mn")
	}
	if index < 0 {
		return syllable
	}
	_, size := utf8.DecodeRuneInString(base[index:])
	return norm.NFC.String(base[:index+size] + toneMarks[tone] + base[index+size:])
}

// markedVowel returns the byte index of the vowel carrying the tone mark.
func markedVowel(syllable string) int {
	for _, vowel := range []string{"a", "e", "o"} {
		if i := strings.Index(syllable, vowel); i >= 0 {
			return i
		}
	}
	// i, u and ü: the later one takes the mark, as in "liu" or "gui"
	return strings.LastIndexAny(syllable, "iuü")
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || c == ':' {
			continue
		}
		return false
	}
	return true
}
