// SPDX-License-Identifier: MPL-2.0

package analyzer

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/strus/strusmod/pkg/module"
)

const (
	MimeXML   = "application/xml"
	MimeHTML  = "text/html"
	MimeJSON  = "application/json"
	MimePlain = "text/plain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type classDetector struct{}

func newClassDetector(module.ErrorBuffer) (module.DocumentClassDetector, error) {
	return classDetector{}, nil
}

// Detect recognizes UTF-8 XML, HTML, JSON and plain text by their leading bytes.
func (classDetector) Detect(content []byte) (module.DocumentClass, bool) {
	body := bytes.TrimSpace(bytes.TrimPrefix(content, utf8BOM))
	if len(body) == 0 || !utf8.Valid(body) {
		return module.DocumentClass{}, false
	}
	class := module.DocumentClass{Encoding: "UTF-8"}
	switch body[0] {
	case '<':
		class.MimeType = MimeXML
		if hasPrefixFold(body, "<!doctype html") || hasPrefixFold(body, "<html") {
			class.MimeType = MimeHTML
		}
	case '{', '[':
		if !json.Valid(body) {
			return module.DocumentClass{}, false
		}
		class.MimeType = MimeJSON
	default:
		class.MimeType = MimePlain
	}
	return class, true
}

func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && bytes.EqualFold(b[:len(prefix)], []byte(prefix))
}
