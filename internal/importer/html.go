// Package importer reads bookmark exports of other browsers.
package importer

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/nikbrunner/xbm/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML into a new tree.
// <DD> text becomes the description of the entry just before it.
func ParseHTMLBookmarks(r io.Reader) (*model.Tree, error) {
	utf8Reader, err := decode(r)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, err
	}

	tree := model.NewTree()

	// Track current folder stack for hierarchy
	folderStack := []model.ID{tree.Root()}
	var pendingFolder model.ID // folder waiting to be pushed on next DL
	var last model.ID          // target of a following <DD>
	var firstErr error

	add := func(params model.NewNodeParams) model.ID {
		params.Parent = folderStack[len(folderStack)-1]
		id, err := tree.NewNode(params)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return id
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Folder definition - get name from text content
				name := getTextContent(n)
				if name != "" {
					pendingFolder = add(model.NewNodeParams{Kind: model.KindFolder, Title: name})
					last = pendingFolder
				}
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}
				last = add(model.NewNodeParams{Kind: model.KindAddress, Title: title, Address: href})
				return // Don't recurse into A

			case "dd":
				if desc := getOwnText(n); desc != "" && last != "" {
					if node, err := tree.Node(last); err == nil {
						node.Description = desc
					}
				}
				last = ""
				// The parser may nest the next DL inside DD, keep walking

			case "dl":
				// Definition list - marks folder contents
				pushedFolder := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return // Don't recurse further, we handled children
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	if firstErr != nil {
		return nil, firstErr
	}
	return tree, nil
}

// decode converts r to UTF-8 when the document declares another charset
// in a BOM or <META> tag. Undeclared input is taken as UTF-8.
func decode(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(1024)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	_, name, _ := charset.DetermineEncoding(head, "text/html")
	declared := hasBOM(head) || bytes.Contains(bytes.ToLower(head), []byte("charset"))
	if name == "utf-8" || !declared {
		return br, nil
	}
	return charset.NewReaderLabel(name, br)
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xef, 0xbb, 0xbf}) ||
		bytes.HasPrefix(b, []byte{0xfe, 0xff}) ||
		bytes.HasPrefix(b, []byte{0xff, 0xfe})
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getOwnText returns the text of n's direct text children only.
func getOwnText(n *html.Node) string {
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
