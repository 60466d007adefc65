// Package frontmatter reads and writes the `---` delimited YAML block at the top of a Markdown
// document.
package frontmatter

import (
	"bytes"
	"errors"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// FingerprintKey is the front-matter key that carries the content fingerprint.
const FingerprintKey = mdfp.FingerprintField

// ErrMissingClosingDelimiter indicates the document started with a front-matter delimiter but
// never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter: start delimiter found but closing delimiter is missing")

// Split separates YAML front matter from the Markdown body.  had is false when the document does
// not start with a delimiter, in which case body is the full input.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	open := []byte("---\n")
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte("\n---\n")
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + 1
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// Join emits `---` delimited front matter followed by body.
func Join(fm []byte, body []byte) []byte {
	out := make([]byte, 0, len(fm)+len(body)+8)
	out = append(out, "---\n"...)
	out = append(out, fm...)
	if len(fm) > 0 && fm[len(fm)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, "---\n"...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw front matter into a map.
func ParseYAML(fm []byte) (map[string]any, error) {
	if len(fm) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Fingerprint computes the content fingerprint of a document, ignoring any fingerprint key
// already present in fields.
func Fingerprint(fields *Fields, body string) (string, error) {
	serialized, err := SerializeYAML(fields.Without(FingerprintKey))
	if err != nil {
		return "", err
	}
	fm := strings.TrimSuffix(string(serialized), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, body), nil
}

// ReadFingerprint returns the fingerprint recorded in an existing document, or "" when there is
// none.
func ReadFingerprint(content []byte) (string, error) {
	fm, _, had, err := Split(content)
	if err != nil || !had {
		return "", err
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return "", err
	}
	fp, _ := fields[FingerprintKey].(string)
	return fp, nil
}
