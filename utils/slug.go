package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify lower-cases the text, strips diacritics and joins words with hyphens.
// "Trámites ante el SAT" -> "tramites-ante-el-sat"
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}

	out := reNonAlnum.ReplaceAllString(string(buf), "-")
	out = reHyphen.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
