package category

import (
	"errors"
	"testing"
)

func TestNormalizeAcceptsKnownSpellings(t *testing.T) {
	testCases := []struct {
		raw  string
		want Category
	}{
		{"album", Album},
		{"Album", Album},
		{"albums", Album},
		{"ALBUMS", Album},
		{"book", Book},
		{"Books", Book},
		{"movie", Movie},
		{"Movies", Movie},
		{"mOvIeS", Movie},
		{"  movie ", Movie},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := Normalize(tc.raw)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q; want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeRejectsUnknownValues(t *testing.T) {
	var nilString *string
	testCases := []struct {
		name string
		raw  any
	}{
		{"cat", "cat"},
		{"dog", "dog"},
		{"thesis", "phd thesis"},
		{"misspelled", "ablum"},
		{"empty", ""},
		{"blank", "   "},
		{"integer", 1337},
		{"float", 13.37},
		{"nil", nil},
		{"nil pointer", nilString},
		{"slice", []string{"album"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw)
			if err == nil {
				t.Fatalf("Normalize(%v) = %q; want error", tc.raw, got)
			}
			var invalid *InvalidError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidError, got %T", err)
			}
			if invalid.Field() != "category" {
				t.Errorf("error tagged on %q; want category", invalid.Field())
			}
		})
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := "ALBUMS"
	if _, err := Normalize(&raw); err != nil {
		t.Fatalf("Normalize returned error %v", err)
	}
	if raw != "ALBUMS" {
		t.Errorf("input was rewritten to %q", raw)
	}
}

func TestLabels(t *testing.T) {
	want := map[Category][2]string{
		Album: {"albums", "Albums"},
		Book:  {"books", "Books"},
		Movie: {"movies", "Movies"},
	}
	for _, c := range All() {
		if got := c.Plural(); got != want[c][0] {
			t.Errorf("%s.Plural() = %q; want %q", c, got, want[c][0])
		}
		if got := c.Label(); got != want[c][1] {
			t.Errorf("%s.Label() = %q; want %q", c, got, want[c][1])
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0] = "podcast"
	if All()[0] != Album {
		t.Fatal("All exposed its backing slice")
	}
}
