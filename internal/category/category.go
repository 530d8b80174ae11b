// Package category validates and canonicalizes the kind of media a work
// belongs to. Free-form input such as "ALBUMS" or "mOvIeS" is reduced to one
// of a fixed set of singular, lowercase identifiers.
package category

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field is the name validation failures are reported under.
const Field = "category"

// Category is a canonical category identifier.
type Category string

const (
	Album Category = "album"
	Book  Category = "book"
	Movie Category = "movie"
)

var all = []Category{Album, Book, Movie}

var titleCaser = cases.Title(language.English)

// All returns every recognised category in display order.
func All() []Category {
	return append([]Category(nil), all...)
}

// Valid reports whether c is one of the recognised categories.
func (c Category) Valid() bool {
	for _, known := range all {
		if c == known {
			return true
		}
	}
	return false
}

// Plural returns the plural spelling, e.g. "movies".
func (c Category) Plural() string {
	return inflection.Plural(string(c))
}

// Label returns a display label, e.g. "Movies".
func (c Category) Label() string {
	return titleCaser.String(c.Plural())
}

func (c Category) String() string {
	return string(c)
}

// InvalidError reports a value that does not normalize to a known category.
type InvalidError struct {
	Raw any
}

func (e *InvalidError) Error() string {
	switch v := e.Raw.(type) {
	case nil:
		return "category can't be blank"
	case string:
		if strings.TrimSpace(v) == "" {
			return "category can't be blank"
		}
		return fmt.Sprintf("%q is not a valid category", v)
	default:
		return fmt.Sprintf("%v (%T) is not a valid category", v, v)
	}
}

// Field returns the input field the failure belongs to.
func (e *InvalidError) Field() string {
	return Field
}

// Normalize lowercases and singularizes raw, then checks it against the
// recognised set. Anything that is not a string (or *string) is rejected.
func Normalize(raw any) (Category, error) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return "", &InvalidError{Raw: nil}
		}
		s = *v
	case Category:
		s = string(v)
	default:
		return "", &InvalidError{Raw: raw}
	}

	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", &InvalidError{Raw: raw}
	}

	c := Category(inflection.Singular(s))
	if !c.Valid() {
		return "", &InvalidError{Raw: raw}
	}
	return c, nil
}

// MustNormalize is Normalize for values known to be valid at compile time.
func MustNormalize(raw string) Category {
	c, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return c
}
