package text

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func languageTag(lang string) language.Tag {
	if lang == "" {
		return language.Und
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}

// caseMap collects the text's UTF-32 codepoints, applies a Unicode case
// mapping under the given language, and re-wraps the result without
// re-normalizing: the Unicode case algorithms guarantee NFC output for
// NFC input.
func caseMap(t Text, caser cases.Caser) Text {
	if t.length == 0 {
		return t
	}
	mapped := caser.String(string(t.UTF32Codepoints()))
	return fromRunes([]rune(mapped), false)
}

// Upper uppercases the text using the language's casing rules.
func Upper(t Text, lang string) Text {
	return caseMap(t, cases.Upper(languageTag(lang)))
}

// Lower lowercases the text using the language's casing rules.
func Lower(t Text, lang string) Text {
	return caseMap(t, cases.Lower(languageTag(lang)))
}

// Title titlecases the text using the language's casing rules.
func Title(t Text, lang string) Text {
	return caseMap(t, cases.Title(languageTag(lang)))
}
