package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilenameFromURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"plain file uri", "file:///photos/cat.jpg", "cat.jpg"},
		{"percent encoded", "file:///photos/my%20cat.jpg", "my cat.jpg"},
		{"content provider uri", "content://media/external/images/12345/IMG%200001.jpg", "IMG 0001.jpg"},
		{"query stripped", "file:///photos/cat.jpg?version=2", "cat.jpg"},
		{"fragment stripped", "file:///photos/cat.jpg#preview", "cat.jpg"},
		{"query with slash", "scheme://host/b.png?redirect=/other/c.jpg", "b.png"},
		{"no slashes", "cat.jpg", "cat.jpg"},
		{"empty input", "", ""},
		{"trailing slash", "file:///photos/", ""},
		{"undecodable escape kept raw", "file:///photos/100%zz.jpg", "100%zz.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilenameFromURI(tt.uri))
		})
	}
}

func TestIsSupportedImage(t *testing.T) {
	supported := []string{
		"cat.jpg", "cat.jpeg", "cat.png", "cat.gif", "cat.bmp", "cat.webp",
		"CAT.JPG", "photo.JPEG", "Mixed.WebP",
	}
	for _, filename := range supported {
		t.Run(filename, func(t *testing.T) {
			assert.True(t, IsSupportedImage(filename))
		})
	}

	unsupported := []string{
		"notes.txt", "movie.mp4", "doc.pdf", "archive.tar.gz",
		"image.jpg.bak", "noextension", "",
	}
	for _, filename := range unsupported {
		t.Run("not_"+filename, func(t *testing.T) {
			assert.False(t, IsSupportedImage(filename))
		})
	}
}

func TestMIMETypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"cat.jpg", "image/jpeg"},
		{"cat.jpeg", "image/jpeg"},
		{"cat.png", "image/png"},
		{"cat.gif", "image/gif"},
		{"cat.bmp", "image/bmp"},
		{"cat.webp", "image/webp"},
		{"CAT.PNG", "image/png"},
		{"unknown.xyz", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, MIMETypeForFilename(tt.filename))
		})
	}
}
