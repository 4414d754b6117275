package constants

import "strings"

// MaxUploadBytes caps the size of an uploaded receipt image.
const MaxUploadBytes = 10 << 20 // 10 MiB

// DefaultCurrency is the fallback ISO 4217 code for the primary market.
// Applied when neither the model nor the address inferrer produced one.
const DefaultCurrency = "PHP"

// AllowedImageMIMETypes holds the accepted content types for receipt uploads.
var AllowedImageMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"image/bmp":  {},
}

// IsImageMIME reports whether ct names an accepted image content type.
// Parameters after a semicolon are ignored.
func IsImageMIME(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	_, ok := AllowedImageMIMETypes[ct]
	return ok
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
