package constants

import "strings"

// FileFormat is the coarse input format the acquisition stage switches on.
type FileFormat string

const (
	PDF   FileFormat = "PDF"
	IMAGE FileFormat = "IMAGE"
)

// AllowedExtensions holds the default allowed file extensions for intake.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
}

// mimeFormats maps declared MIME types to a format. Declared type wins over
// sniffing; a mismatch surfaces later as an unreadable file.
var mimeFormats = map[string]FileFormat{
	"application/pdf": PDF,
	"image/jpeg":      IMAGE,
	"image/jpg":       IMAGE,
	"image/png":       IMAGE,
	"image/tiff":      IMAGE,
}

// MapMIMEToFormat resolves a declared MIME type (parameters ignored) to a
// format. Returns "" for unsupported types.
func MapMIMEToFormat(mimeType string) FileFormat {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	return mimeFormats[m]
}

// MapExtToFormat resolves a normalized file extension to a format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "tif", "tiff":
		return IMAGE
	default:
		return ""
	}
}

// MIMEForExt returns the declared MIME type to use for a file picked up by
// path (CLI and intake watcher), where no upload metadata exists.
func MIMEForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	case "tif", "tiff":
		return "image/tiff"
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return ""
	}
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ExtForMIME returns a representative file extension for a supported MIME
// type, used when spooling uploaded bytes to disk for the external tools.
func ExtForMIME(mimeType string) string {
	switch MapMIMEToFormat(mimeType) {
	case PDF:
		return "pdf"
	case IMAGE:
		m := strings.ToLower(mimeType)
		switch {
		case strings.Contains(m, "png"):
			return "png"
		case strings.Contains(m, "tif"):
			return "tiff"
		default:
			return "jpg"
		}
	default:
		return "bin"
	}
}
