// Package utils contains small helper functions used across the project.
//
// These are usually generic helpers that don't belong to a specific domain.
package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

// PrintJSON pretty-prints any Go value as indented JSON to w.
func PrintJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshalling the JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Slugify derives a lowercase, URL-safe identifier from a title.
//
//	"Spicy Bean Tacos!" -> "spicy-bean-tacos"
//
// The result only contains [a-z0-9-], has no leading or trailing dash and is
// empty when the title has no letters or digits.
func Slugify(title string) string {
	s := slug.Make(title)
	// slug keeps "_" and "~"; both would survive into file names and URLs.
	s = strings.NewReplacer("_", "-", "~", "-").Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// instructionsPolicy allows the formatting markup users write in recipes
// and strips scripts, event handlers and javascript: URLs.
var instructionsPolicy = bluemonday.UGCPolicy()

// SanitizeHTML neutralizes active content in user supplied HTML.
//
//	"<script>alert(1)</script>Mix well" -> "Mix well"
func SanitizeHTML(input string) string {
	return instructionsPolicy.Sanitize(input)
}

// FileExtension returns the text after the last "." of the base name of filename.
//
// A name without a dot is returned unchanged, so "photo" yields "photo".
// Directory components sent by some clients are ignored and only ASCII
// letters and digits are kept, so the result is always safe in a file name.
func FileExtension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}

	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, base)
}
