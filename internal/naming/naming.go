// Package naming derives member names from attribute and class names.
//
// Every function here is total: any string is valid input and the empty
// string maps to the empty string.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Transform maps an attribute name to the suffix placed after "get"/"set".
type Transform func(name string) string

// ConstructorName maps a class name to the name of its initializer.
type ConstructorName func(className string) string

// FirstUpperCase returns name with its first character upper-cased.
func FirstUpperCase(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// SnakeCase prefixes name with an underscore.
func SnakeCase(name string) string {
	if name == "" {
		return ""
	}
	return "_" + name
}

// JavaConstructorName names a constructor after its class.
func JavaConstructorName(className string) string {
	return className
}

// JSConstructorName always returns "constructor".
func JSConstructorName(string) string {
	return "constructor"
}

// Convention selects the accessor naming rule.
type Convention int

const (
	_ Convention = iota
	// CamelCase upper-cases the first letter: age -> getAge.
	CamelCase
	// SnakeCaseConvention separates with an underscore: age -> get_age.
	SnakeCaseConvention
)

func (c Convention) String() string {
	switch c {
	case CamelCase:
		return "camel"
	case SnakeCaseConvention:
		return "snake"
	}
	return "unknown"
}

// Transform returns the convention's name transform. Unknown values fall
// back to FirstUpperCase, the historical default.
func (c Convention) Transform() Transform {
	if c == SnakeCaseConvention {
		return SnakeCase
	}
	return FirstUpperCase
}

// ParseConvention accepts "camel", "camelcase", "camel_case", "snake",
// "snakecase" or "snake_case", case-insensitively.
func ParseConvention(s string) (Convention, bool) {
	switch normalize(s) {
	case "camel", "camelcase":
		return CamelCase, true
	case "snake", "snakecase":
		return SnakeCaseConvention, true
	}
	return 0, false
}

// Language selects the constructor naming rule of a target language.
type Language int

const (
	_ Language = iota
	Java
	JavaScript
)

func (l Language) String() string {
	switch l {
	case Java:
		return "java"
	case JavaScript:
		return "js"
	}
	return "unknown"
}

// ConstructorName returns the language's constructor naming function.
func (l Language) ConstructorName() ConstructorName {
	if l == JavaScript {
		return JSConstructorName
	}
	return JavaConstructorName
}

// ParseLanguage accepts "java", "js" or "javascript", case-insensitively.
func ParseLanguage(s string) (Language, bool) {
	switch normalize(s) {
	case "java":
		return Java, true
	case "js", "javascript":
		return JavaScript, true
	}
	return 0, false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}
