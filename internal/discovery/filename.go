package discovery

import (
	"net/url"
	"path/filepath"
	"strings"
)

// supportedImageTypes maps the file extensions auto-import picks up to
// their MIME types.
var supportedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// FilenameFromURI extracts a display filename from an opaque file URI on a
// best-effort basis. Query and fragment parts are dropped, the last path
// segment is taken and percent escapes are decoded when possible. It never
// fails: malformed input yields some filename, possibly empty.
func FilenameFromURI(uri string) string {
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		uri = uri[i+1:]
	}
	if decoded, err := url.PathUnescape(uri); err == nil {
		return decoded
	}
	return uri
}

// IsSupportedImage reports whether a filename carries one of the image
// extensions auto-import handles. The check is case-insensitive and does
// no I/O.
func IsSupportedImage(filename string) bool {
	_, ok := supportedImageTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MIMETypeForFilename returns the MIME type for a supported image
// filename, or application/octet-stream for anything else.
func MIMETypeForFilename(filename string) string {
	if mimeType, ok := supportedImageTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mimeType
	}
	return "application/octet-stream"
}
