package controller

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Camelize converts an underscored or hyphenated name to camel case:
// "show_user" and "show-user" become "showUser" (or "ShowUser" when
// upperFirst is set). Already camel-cased input is returned with only the
// first rune adjusted.
func Camelize(name string, upperFirst bool) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	if len(words) == 0 {
		return ""
	}

	// Caser values are stateful; one per call.
	title := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	b.Grow(len(name))
	for i, w := range words {
		if i == 0 && !upperFirst {
			b.WriteString(lowerFirst(w))
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Underscore converts a camel-cased or hyphenated name to lower snake case:
// "UserProfiles" and "user-profiles" become "user_profiles".
func Underscore(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && runes[i-1] != '_' && runes[i-1] != '-' &&
				(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeAction maps every spelling of an action name to the key used in
// action tables: hyphens become underscores, then the result is camelized.
func NormalizeAction(action string) string {
	return Camelize(strings.ReplaceAll(action, "-", "_"), false)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
