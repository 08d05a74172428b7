// Package xbel reads and writes bookmark trees in the XML Bookmark Exchange
// Language, version 1.0.
package xbel

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nikbrunner/xbm/internal/model"
	"golang.org/x/net/html/charset"
)

// DefaultTitle is given to bookmarks that carry no title element.
const DefaultTitle = "Unknown title"

var (
	ErrNotXBEL      = errors.New("not an XBEL version 1.0 file")
	ErrEmpty        = errors.New("empty document")
	ErrWriteFailure = errors.New("cannot write bookmarks")
)

// FormatError reports malformed input. The tree returned next to it holds
// everything parsed before the error.
type FormatError struct {
	Line int
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xbel: line %d: %s", e.Line, e.Msg)
	}
	return "xbel: " + e.Msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ReadFile parses the file at path. A path that does not exist yields an
// empty tree and no error.
func ReadFile(path string) (*model.Tree, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewTree(), nil
	}
	if err != nil {
		return model.NewTree(), err
	}
	defer f.Close()

	return Read(f)
}

// Read parses an XBEL document. The returned tree is never nil.
func Read(r io.Reader) (*model.Tree, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	p := &parser{d: d, tree: model.NewTree()}
	if err := p.document(); err != nil {
		return p.tree, p.formatError(err)
	}
	return p.tree, nil
}

type parser struct {
	d    *xml.Decoder
	tree *model.Tree
}

func (p *parser) document() error {
	start, ok, err := p.nextStart()
	if errors.Is(err, io.EOF) {
		return ErrEmpty
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrEmpty
	}

	version := attr(start, "version")
	if start.Name.Local != "xbel" || (version != "" && version != "1.0") {
		return ErrNotXBEL
	}
	return p.items(p.tree.Root())
}

// items reads folder and bookmark children of the open element into parent.
func (p *parser) items(parent model.ID) error {
	for {
		start, ok, err := p.nextStart()
		if err != nil || !ok {
			return err
		}

		switch start.Name.Local {
		case "folder":
			err = p.folder(parent)
		case "bookmark":
			err = p.bookmark(parent, start)
		default:
			err = p.d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) folder(parent model.ID) error {
	n, err := p.newNode(model.KindFolder, parent)
	if err != nil {
		return err
	}

	for {
		start, ok, err := p.nextStart()
		if err != nil || !ok {
			return err
		}

		switch start.Name.Local {
		case "title":
			n.Title, err = p.text()
		case "desc":
			n.Description, err = p.text()
		case "folder":
			err = p.folder(n.ID())
		case "bookmark":
			err = p.bookmark(n.ID(), start)
		default:
			err = p.d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) bookmark(parent model.ID, start xml.StartElement) error {
	n, err := p.newNode(model.KindAddress, parent)
	if err != nil {
		return err
	}
	n.Address = attr(start, "href")
	defer func() {
		if n.Title == "" {
			n.Title = DefaultTitle
		}
	}()

	for {
		child, ok, err := p.nextStart()
		if err != nil || !ok {
			return err
		}

		switch child.Name.Local {
		case "title":
			n.Title, err = p.text()
		case "desc":
			n.Description, err = p.text()
		default:
			err = p.d.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) newNode(kind model.Kind, parent model.ID) (*model.Node, error) {
	id, err := p.tree.NewNode(model.NewNodeParams{Kind: kind, Parent: parent})
	if err != nil {
		return nil, err
	}
	return p.tree.Node(id)
}

// nextStart advances to the next child element of the open element. It
// reports false once that element is closed.
func (p *parser) nextStart() (xml.StartElement, bool, error) {
	for {
		tok, err := p.d.Token()
		if err != nil {
			return xml.StartElement{}, false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, true, nil
		case xml.EndElement:
			return xml.StartElement{}, false, nil
		}
	}
}

// text returns the character data of the open element, including that of
// nested elements, and consumes its end tag.
func (p *parser) text() (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := p.d.Token()
		if err != nil {
			return b.String(), err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}

func (p *parser) formatError(err error) *FormatError {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &FormatError{Line: syntax.Line, Msg: syntax.Msg, Err: err}
	}
	line, _ := p.d.InputPos()
	return &FormatError{Line: line, Msg: err.Error(), Err: err}
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
