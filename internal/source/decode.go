package source

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Decode converts content from the named encoding to UTF-8.
// Empty names and UTF-8 labels leave content untouched.
func Decode(content []byte, encoding string) ([]byte, bool, error) {
	label := strings.ToLower(strings.TrimSpace(encoding))
	if label == "" || label == "utf-8" || label == "utf8" {
		return content, false, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, false, err
	}
	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// IsXCoded reports whether content starts with an xcode (encrypted source) marker.
func IsXCoded(content []byte) bool {
	return len(content) > 0 && (content[0] == 0x11 || content[0] == 0x13)
}
