// Package sanitize turns raw invoice bytes of unknown encoding into a
// string an XML parser can work with. Issuing software in the wild emits
// mixed encodings, stray control characters, duplicate XML declarations
// and inconsistent namespace declarations; everything here degrades
// rather than fails.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/fiscalia/nfe-auditor/internal/model"
)

// candidateEncoding is one entry of the ordered decode attempt list.
type candidateEncoding struct {
	name string
	enc  encoding.Encoding // nil means strict UTF-8 validation
}

// defaultCandidates are tried in order; the first clean decode wins.
// ISO-8859-1 accepts every byte, so it doubles as the permissive tail
// before the lossy fallback.
var defaultCandidates = []candidateEncoding{
	{name: "UTF-8", enc: nil},
	{name: "ISO-8859-1", enc: charmap.ISO8859_1},
	{name: "Windows-1252", enc: charmap.Windows1252},
}

var (
	xmlDeclRe  = regexp.MustCompile(`<\?xml[^?]*\?>`)
	xmlnsRe    = regexp.MustCompile(`\s+xmlns(:[A-Za-z0-9._-]+)?\s*=\s*("[^"]*"|'[^']*')`)
	controlSet = func() map[rune]bool {
		allowed := map[rune]bool{'\t': true, '\n': true, '\r': true}
		return allowed
	}()
)

// Sanitizer cleans raw input text into an XML-parsable string.
type Sanitizer struct {
	candidates []candidateEncoding
}

// New creates a sanitizer with the default encoding candidates.
func New() *Sanitizer {
	return &Sanitizer{candidates: defaultCandidates}
}

// Clean decodes and normalizes raw bytes. It never fails: when no
// candidate encoding decodes the input cleanly it falls back to a lossy
// decode and records an EncodingUnresolved diagnostic.
func (s *Sanitizer) Clean(data []byte) (string, []model.Diagnostic) {
	var diags []model.Diagnostic

	text, ok := s.decode(data)
	if !ok {
		text = lossyDecode(data)
		diags = append(diags, model.NewEncodingDiagnostic(
			"no candidate encoding decoded the input cleanly, undecodable sequences were replaced"))
	}

	text = strings.TrimPrefix(text, "\uFEFF")
	text = stripControlChars(text)
	text = collapseXMLDeclarations(text)
	text = stripNamespaceDeclarations(text)

	return text, diags
}

// decode tries each candidate encoding in order and returns the first
// clean result. A decode is unclean when it produced replacement
// characters, or C1 control characters: ISO-8859-1 maps every byte to
// something, and bytes landing in 0x80-0x9F mean the candidate was
// wrong, not that the invoice contains control characters.
func (s *Sanitizer) decode(data []byte) (string, bool) {
	for _, cand := range s.candidates {
		if cand.enc == nil {
			if utf8.Valid(data) {
				return string(data), true
			}
			continue
		}
		decoded, err := cand.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if !cleanDecode(string(decoded)) {
			continue
		}
		return string(decoded), true
	}
	return "", false
}

func cleanDecode(text string) bool {
	for _, r := range text {
		if r == utf8.RuneError || (r >= 0x80 && r <= 0x9F) {
			return false
		}
	}
	return true
}

// lossyDecode replaces every undecodable byte sequence with U+FFFD.
func lossyDecode(data []byte) string {
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// stripControlChars removes control characters outside the allowed
// whitespace set. XML 1.0 forbids them and real-world invoices contain
// them anyway.
func stripControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && !controlSet[r] {
			return -1
		}
		if r >= 0x7F && r <= 0x9F {
			return -1
		}
		return r
	}, text)
}

// collapseXMLDeclarations reduces a document carrying more than one
// <?xml ...?> declaration (a concatenation artifact of some issuers) to
// a single leading declaration.
func collapseXMLDeclarations(text string) string {
	decls := xmlDeclRe.FindAllString(text, -1)
	if len(decls) <= 1 {
		return text
	}
	stripped := xmlDeclRe.ReplaceAllString(text, "")
	return decls[0] + stripped
}

// stripNamespaceDeclarations removes xmlns and xmlns:* attributes from
// the raw text. Prefixes on tag names are left alone; the tree layer
// matches on local names and ignores them.
func stripNamespaceDeclarations(text string) string {
	return xmlnsRe.ReplaceAllString(text, "")
}

// DescribeCandidates names the configured encodings in try order, for
// diagnostics and logs.
func (s *Sanitizer) DescribeCandidates() string {
	names := make([]string, len(s.candidates))
	for i, c := range s.candidates {
		names[i] = c.name
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}
