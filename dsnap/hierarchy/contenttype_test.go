package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeByName(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"plain text", "notes.txt", "text/plain"},
		{"uppercase extension", "NOTES.TXT", "text/plain"},
		{"pdf", "report.pdf", "application/pdf"},
		{"xml", "feed.xml", "text/xml"},
		{"json", "data.json", "application/json"},
		{"image", "photo.JPEG", "image/jpeg"},
		{"archive", "bundle.tar.gz", "application/gzip"},
		{"extensionless", "Makefile", DefaultContentType},
		{"dotfile", ".bashrc", DefaultContentType},
		{"unknown extension", "blob.zzz9", DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentTypeByName(tt.file))
		})
	}
}

func TestContentTypeByName_NoParameters(t *testing.T) {
	// Types resolved through the platform registry must not leak parameters
	// like "; charset=utf-8".
	for _, file := range []string{"page.html", "style.css", "app.js"} {
		ct := ContentTypeByName(file)
		assert.NotContains(t, ct, ";", "%s resolved to parameterized type %q", file, ct)
		assert.NotEmpty(t, ct)
	}
}
