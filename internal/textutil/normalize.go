package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const cyrillicLetters = "абвгдеёжзийклмнопрстуфхцчшщъыьэюяєіїґ"

var latinTranslations = []string{
	"a", "b", "v", "g", "d", "e", "e", "j", "z", "i", "j", "k", "l", "m", "n", "o",
	"p", "r", "s", "t", "u", "f", "h", "ts", "ch", "sh", "sch", "", "y", "", "e", "yu",
	"ya", "je", "i", "ji", "g",
}

// badSymbols are replaced with an underscore in file names.
const badSymbols = "#%&{}\\<>*? $!\"':@+|="

var transliteration = buildTransliteration()

func buildTransliteration() map[rune]string {
	table := make(map[rune]string, 2*len(latinTranslations))
	i := 0
	for _, r := range cyrillicLetters {
		latin := latinTranslations[i]
		table[r] = latin
		table[unicode.ToUpper(r)] = upperFirst(latin)
		i++
	}
	return table
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Normalize transliterates Cyrillic letters to Latin, replaces characters that
// are awkward in file names with underscores, and passes everything else
// through byte for byte, including invalid UTF-8. A Cyrillic base letter
// followed by a combining mark that composes into a table letter, such as "и"
// plus a combining breve, transliterates like the composed letter; no other
// sequence is recomposed. Normalize is total and idempotent.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); {
		r, size := utf8.DecodeRuneInString(name[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(name[i])
			i++
			continue
		}
		if latin, n, ok := composedLetter(name[i:], size); ok {
			b.WriteString(latin)
			i += n
			continue
		}
		if latin, ok := transliteration[r]; ok {
			b.WriteString(latin)
		} else if strings.ContainsRune(badSymbols, r) {
			b.WriteByte('_')
		} else {
			b.WriteString(name[i : i+size])
		}
		i += size
	}
	return b.String()
}

// composedLetter checks whether s starts with a base rune of length size and
// a combining mark that NFC-compose into a letter of the table. It returns the
// transliteration and the number of bytes consumed.
func composedLetter(s string, size int) (string, int, bool) {
	mark, markSize := utf8.DecodeRuneInString(s[size:])
	if markSize == 0 || mark == utf8.RuneError || !unicode.Is(unicode.Mn, mark) {
		return "", 0, false
	}
	pair := s[:size+markSize]
	composed := norm.NFC.String(pair)
	r, n := utf8.DecodeRuneInString(composed)
	if n != len(composed) {
		return "", 0, false
	}
	latin, ok := transliteration[r]
	if !ok {
		return "", 0, false
	}
	return latin, len(pair), true
}
