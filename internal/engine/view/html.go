package view

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements are parsed as empty view elements.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether name is an HTML void element.
func IsVoidElement(name string) bool { return voidElements[name] }

// formattingElements are parsed as attribute view elements.
var formattingElements = map[string]bool{
	"a": true, "b": true, "code": true, "em": true, "i": true, "s": true,
	"strong": true, "sub": true, "sup": true, "u": true, "mark": true,
}

// HTMLProcessor converts between HTML strings and view fragments.
type HTMLProcessor struct{}

// ToView parses HTML into a detached view fragment. Comments, doctype and
// script content are dropped.
func (HTMLProcessor) ToView(data string) (*Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(data), context)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	frag := NewFragment()
	for _, n := range nodes {
		if child := fromHTML(n); child != nil {
			frag.insertChild(len(frag.children), child)
		}
	}
	return frag, nil
}

// ToData renders the children of a fragment or element as HTML.
func (HTMLProcessor) ToData(parent *Element) (string, error) {
	var buf bytes.Buffer
	for _, child := range parent.children {
		if err := html.Render(&buf, toHTML(child)); err != nil {
			return "", fmt.Errorf("rendering html: %w", err)
		}
	}
	return buf.String(), nil
}

// Stringify renders a single node, including the element's own tag.
// Fragments and roots render their children only.
func Stringify(node Node) (string, error) {
	if el, ok := node.(*Element); ok && (el.kind == KindFragment || el.kind == KindRoot) {
		return HTMLProcessor{}.ToData(el)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, toHTML(node)); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

func fromHTML(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return &Text{data: n.Data}
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return nil
		}
		attrs := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			if a.Namespace == "" {
				attrs[a.Key] = a.Val
			}
		}
		kind := KindContainer
		switch {
		case voidElements[n.Data]:
			kind = KindEmpty
		case formattingElements[n.Data]:
			kind = KindAttribute
		}
		el := newElement(kind, n.Data, attrs)
		if kind != KindEmpty {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if child := fromHTML(c); child != nil {
					el.insertChild(len(el.children), child)
				}
			}
		}
		return el
	default:
		return nil
	}
}

func toHTML(node Node) *html.Node {
	switch n := node.(type) {
	case *Text:
		return &html.Node{Type: html.TextNode, Data: n.data}
	case *Element:
		out := &html.Node{
			Type:     html.ElementNode,
			Data:     n.name,
			DataAtom: atom.Lookup([]byte(n.name)),
		}
		for _, key := range n.AttributeKeys() {
			val, _ := n.GetAttribute(key)
			out.Attr = append(out.Attr, html.Attribute{Key: key, Val: val})
		}
		for _, child := range n.children {
			out.AppendChild(toHTML(child))
		}
		return out
	default:
		return &html.Node{Type: html.TextNode}
	}
}
