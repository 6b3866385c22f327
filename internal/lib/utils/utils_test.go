package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Spicy Bean Tacos!", "spicy-bean-tacos"},
		{"  Juicy   Cheese Burger  ", "juicy-cheese-burger"},
		{"Crème Brûlée", "creme-brulee"},
		{"Mac_and~Cheese", "mac-and-cheese"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	title := "Delicious Schnitzel with Potato Salad"
	first := Slugify(title)
	assert.Equal(t, first, Slugify(title))
	assert.Equal(t, first, Slugify(first))
}

func TestSanitizeHTML(t *testing.T) {
	t.Run("strips scripts and keeps text", func(t *testing.T) {
		out := SanitizeHTML("<script>alert(1)</script>Mix well")
		assert.NotContains(t, strings.ToLower(out), "<script")
		assert.Contains(t, out, "Mix well")
	})

	t.Run("keeps formatting markup", func(t *testing.T) {
		out := SanitizeHTML("<p>1. Mix <strong>well</strong></p>")
		assert.Equal(t, "<p>1. Mix <strong>well</strong></p>", out)
	})

	t.Run("removes event handlers", func(t *testing.T) {
		out := SanitizeHTML(`<p onclick="steal()">Bake</p>`)
		assert.NotContains(t, out, "onclick")
		assert.Contains(t, out, "Bake")
	})
}

func TestFileExtension(t *testing.T) {
	tests := map[string]string{
		"tacos.jpg":              "jpg",
		"archive.tar.gz":         "gz",
		"photo":                  "photo",
		"C:\\Users\\me\\pic.PNG": "PNG",
		"../../etc/passwd.x/y":   "y",
		"weird.j p/g":            "g",
	}

	for filename, want := range tests {
		t.Run(filename, func(t *testing.T) {
			assert.Equal(t, want, FileExtension(filename))
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]string{"slug": "spicy-bean-tacos"}))
	assert.Equal(t, "{\n\t\"slug\": \"spicy-bean-tacos\"\n}\n", buf.String())

	assert.Error(t, PrintJSON(&buf, make(chan int)))
}
