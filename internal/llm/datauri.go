package llm

import (
	"encoding/base64"
	"strings"
)

// EncodeDataURL packages raw image bytes as a base64 data URL for the
// chat-completions image part. Unknown content types fall back to
// application/octet-stream rather than failing.
func EncodeDataURL(data []byte, mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" || !strings.Contains(mt, "/") {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
}
