// Package xmlpath resolves semantic fields against loosely structured
// invoice XML. The same field shows up at different depths and under
// different namespace prefixes depending on the issuing software, so
// lookups match on local tag names only and callers supply an ordered
// list of candidate paths; the first path that matches wins.
package xmlpath

import (
	"strings"

	"github.com/beevik/etree"
)

// Path syntax:
//
//	"a/b/c"  child steps, each matched by local name
//	"//a/b"  deep search for the first step, child steps after it
//	"*"      matches any element at that step
//
// etree already splits a namespace prefix into Element.Space, so Tag is
// the local name and prefixed documents need no special casing.

// Parse reads an XML document from sanitized text.
func Parse(text string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, errEmptyDocument
	}
	return doc, nil
}

type emptyDocumentError struct{}

func (emptyDocumentError) Error() string { return "document has no root element" }

var errEmptyDocument = emptyDocumentError{}

// Find returns the first element matching any of the candidate paths,
// tried strictly in order. A later path is never consulted once an
// earlier one matches.
func Find(node *etree.Element, paths ...string) *etree.Element {
	for _, path := range paths {
		if elem := findPath(node, path); elem != nil {
			return elem
		}
	}
	return nil
}

// FindAll returns, for the first candidate path yielding at least one
// element, all its matches in document order. Subsequent candidates are
// not probed once one has produced elements (first-success-stops).
func FindAll(node *etree.Element, paths ...string) []*etree.Element {
	for _, path := range paths {
		if elems := findAllPath(node, path); len(elems) > 0 {
			return elems
		}
	}
	return nil
}

// Text resolves the candidate paths and returns the trimmed text of the
// first match, or fallback when no path yields a non-empty value.
func Text(node *etree.Element, paths []string, fallback string) string {
	for _, path := range paths {
		if elem := findPath(node, path); elem != nil {
			if text := strings.TrimSpace(elem.Text()); text != "" {
				return text
			}
		}
	}
	return fallback
}

// FindDescendant performs a depth-first search for the first descendant
// (or node itself) with the given local name.
func FindDescendant(node *etree.Element, localName string) *etree.Element {
	if matches(node, localName) {
		return node
	}
	for _, child := range node.ChildElements() {
		if found := FindDescendant(child, localName); found != nil {
			return found
		}
	}
	return nil
}

func findPath(node *etree.Element, path string) *etree.Element {
	steps, deep := splitPath(path)
	if len(steps) == 0 {
		return nil
	}

	var heads []*etree.Element
	if deep {
		heads = collectDescendants(node, steps[0])
	} else {
		heads = childMatches(node, steps[0])
	}

	for _, head := range heads {
		if elem := walkChildren(head, steps[1:]); elem != nil {
			return elem
		}
	}
	return nil
}

func findAllPath(node *etree.Element, path string) []*etree.Element {
	steps, deep := splitPath(path)
	if len(steps) == 0 {
		return nil
	}

	var heads []*etree.Element
	if deep {
		heads = collectDescendants(node, steps[0])
	} else {
		heads = childMatches(node, steps[0])
	}

	if len(steps) == 1 {
		return heads
	}

	var result []*etree.Element
	for _, head := range heads {
		result = append(result, walkChildrenAll(head, steps[1:])...)
	}
	return result
}

// walkChildren follows child steps from head, returning the first full
// match in document order.
func walkChildren(head *etree.Element, steps []string) *etree.Element {
	if len(steps) == 0 {
		return head
	}
	for _, child := range childMatches(head, steps[0]) {
		if elem := walkChildren(child, steps[1:]); elem != nil {
			return elem
		}
	}
	return nil
}

func walkChildrenAll(head *etree.Element, steps []string) []*etree.Element {
	if len(steps) == 0 {
		return []*etree.Element{head}
	}
	var result []*etree.Element
	for _, child := range childMatches(head, steps[0]) {
		result = append(result, walkChildrenAll(child, steps[1:])...)
	}
	return result
}

func childMatches(node *etree.Element, step string) []*etree.Element {
	var result []*etree.Element
	for _, child := range node.ChildElements() {
		if matches(child, step) {
			result = append(result, child)
		}
	}
	return result
}

// collectDescendants gathers descendants of node (excluding node itself)
// whose local name matches, in document order.
func collectDescendants(node *etree.Element, step string) []*etree.Element {
	var result []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if matches(child, step) {
				result = append(result, child)
			}
			walk(child)
		}
	}
	walk(node)
	return result
}

func matches(el *etree.Element, step string) bool {
	return step == "*" || el.Tag == step
}

func splitPath(path string) (steps []string, deep bool) {
	if strings.HasPrefix(path, "//") {
		deep = true
		path = path[2:]
	}
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			steps = append(steps, s)
		}
	}
	return steps, deep
}
