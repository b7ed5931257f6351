package gen

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// LowerName returns the lower-cased entity name, the key of the entity router
// in the aggregate router.
func LowerName(entity string) string {
	return lower.String(entity)
}

// PluralName returns the pluralized lower-cased entity name.
func PluralName(entity string) string {
	return inflect.Pluralize(LowerName(entity))
}

// RouterName returns the exported router constant of the entity, e.g.
// "usersRouter".
func RouterName(entity string) string {
	return PluralName(entity) + "Router"
}

// AccessorName returns the data accessor property of the entity on ctx.prisma.
func AccessorName(entity string) string {
	r, n := utf8.DecodeRuneInString(entity)
	if r == utf8.RuneError {
		return entity
	}
	return string(unicode.ToLower(r)) + entity[n:]
}
