package carousel

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var containerMatcher = cascadia.MustCompile(ContainerSelector)

// SyncFragment parses an HTML fragment, synchronizes every carousel in it
// with opts and writes the resulting markup to w. A fragment without a
// .swiper container is treated as a single carousel. Returns the number of
// carousels synchronized.
func SyncFragment(r io.Reader, w io.Writer, opts Options) (int, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	roots := cascadia.QueryAll(body, containerMatcher)
	if len(roots) == 0 {
		roots = []*html.Node{body}
	}

	for _, root := range roots {
		c, err := New(root, opts)
		if err != nil {
			return 0, err
		}
		c.Sync()
	}

	var buf bytes.Buffer
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return 0, fmt.Errorf("failed to render fragment: %w", err)
		}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return 0, err
	}

	return len(roots), nil
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}
