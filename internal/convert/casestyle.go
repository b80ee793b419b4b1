package convert

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseDirection selects a case-style conversion.
type CaseDirection string

const (
	CaseAuto          CaseDirection = "auto"
	CaseSnakeToCamel  CaseDirection = "snake_to_camel"
	CaseSnakeToPascal CaseDirection = "snake_to_pascal"
	CaseDashToCamel   CaseDirection = "dash_to_camel"
	CaseCamelToSnake  CaseDirection = "camel_to_snake"
	CaseCamelToDash   CaseDirection = "camel_to_dash"
	CasePascalToSnake CaseDirection = "pascal_to_snake"

	// Toggles flip between the two forms, deciding from the first character.
	CaseToggleUnderscores       CaseDirection = "camel_underscores"
	CaseToggleDash              CaseDirection = "camel_dash"
	CaseTogglePascalUnderscores CaseDirection = "pascal_underscores"
)

var (
	capitalisedWord = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerThenUpper  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToUnderscores converts camelCase or PascalCase to snake_case.
func ToUnderscores(name string) string {
	return separateWords(name, "_")
}

// ToDash converts camelCase or PascalCase to dash-case.
func ToDash(name string) string {
	return separateWords(name, "-")
}

func separateWords(name, sep string) string {
	s := capitalisedWord.ReplaceAllString(name, "${1}"+sep+"${2}")
	s = lowerThenUpper.ReplaceAllString(s, "${1}"+sep+"${2}")
	return cases.Lower(language.Und).String(s)
}

// ToCamelCase joins sep separated fragments, capitalising all but the first.
// Empty fragments from repeated separators are kept as empty segments.
func ToCamelCase(name, sep string) string {
	parts := strings.Split(name, sep)
	var b strings.Builder
	b.Grow(len(name))
	for i, part := range parts {
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(capitalise(part))
	}
	return b.String()
}

// ToPascalCase joins sep separated fragments, capitalising every one.
func ToPascalCase(name, sep string) string {
	parts := strings.Split(name, sep)
	var b strings.Builder
	b.Grow(len(name))
	for _, part := range parts {
		b.WriteString(capitalise(part))
	}
	return b.String()
}

// capitalise upper-cases the first rune and lower-cases the rest.
func capitalise(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// DetectCaseDirection picks the conversion for text the way the editor commands do:
// only the first character's case and the presence of a separator are inspected.
// It returns false when the text gives no usable hint.
func DetectCaseDirection(text string) (CaseDirection, bool) {
	first, _ := utf8.DecodeRuneInString(text)
	switch {
	case text == "":
		return "", false
	case unicode.IsLower(first) && strings.Contains(text, "_"):
		return CaseSnakeToCamel, true
	case unicode.IsLower(first) && strings.Contains(text, "-"):
		return CaseDashToCamel, true
	case unicode.IsUpper(first):
		return CasePascalToSnake, true
	case unicode.IsLower(first):
		return CaseCamelToSnake, true
	}
	return "", false
}

// ConvertCase applies a case-style conversion. The result reports Changed=false
// when the direction does not apply to the text; that is not an error.
func ConvertCase(text string, direction CaseDirection) (Result, error) {
	if direction == "" {
		direction = CaseAuto
	}
	if text == "" {
		return unchanged(text), nil
	}

	first, _ := utf8.DecodeRuneInString(text)
	lower := unicode.IsLower(first)
	upper := unicode.IsUpper(first)

	switch direction {
	case CaseAuto:
		detected, ok := DetectCaseDirection(text)
		if !ok {
			return unchanged(text), nil
		}
		return ConvertCase(text, detected)
	case CaseToggleUnderscores:
		switch {
		case lower && strings.Contains(text, "_"):
			return changed(text, ToCamelCase(text, "_")), nil
		case lower:
			return changed(text, ToUnderscores(text)), nil
		}
		return unchanged(text), nil
	case CaseToggleDash:
		switch {
		case lower && strings.Contains(text, "-"):
			return changed(text, ToCamelCase(text, "-")), nil
		case lower:
			return changed(text, ToDash(text)), nil
		}
		return unchanged(text), nil
	case CaseTogglePascalUnderscores:
		switch {
		case lower && strings.Contains(text, "_"):
			return changed(text, ToPascalCase(text, "_")), nil
		case upper:
			return changed(text, ToUnderscores(text)), nil
		}
		return unchanged(text), nil
	case CaseSnakeToCamel:
		return changed(text, ToCamelCase(text, "_")), nil
	case CaseSnakeToPascal:
		return changed(text, ToPascalCase(text, "_")), nil
	case CaseDashToCamel:
		return changed(text, ToCamelCase(text, "-")), nil
	case CaseCamelToSnake, CasePascalToSnake:
		return changed(text, ToUnderscores(text)), nil
	case CaseCamelToDash:
		return changed(text, ToDash(text)), nil
	}
	return Result{}, inputErrorf("case", "unknown case direction %q", direction)
}
