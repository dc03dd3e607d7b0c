package scripture

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/dailywalk/dailywalk/core/errors"
)

// XMLDocument answers index lookups against a parsed scripture XML file of
// the shape produced by the data pipeline:
//
//	<bible>
//	  <book number="1">
//	    <chapter number="1">
//	      <verse number="1">起初神创造天地。</verse>
//
// Lookups are plain XPath queries; the DOM is parsed once and never
// mutated, so concurrent readers need no locking.
type XMLDocument struct {
	root *xmlquery.Node
}

// verseQuery selects the verse children of a chapter, pre-compiled because
// it runs once per rendered chapter.
var verseQuery = xpath.MustCompile("verse")

// LoadXML parses a scripture XML document from r.
func LoadXML(r io.Reader) (*XMLDocument, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &errors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	return &XMLDocument{root: root}, nil
}

// Book implements Document.
func (d *XMLDocument) Book(n int) (Book, bool) {
	node := xmlquery.FindOne(d.root, fmt.Sprintf("//book[@number='%d']", n))
	if node == nil {
		return nil, false
	}
	return &xmlBook{node: node}, true
}

type xmlBook struct {
	node *xmlquery.Node
}

func (b *xmlBook) Chapter(n int) (Chapter, bool) {
	node := xmlquery.FindOne(b.node, fmt.Sprintf("chapter[@number='%d']", n))
	if node == nil {
		return nil, false
	}
	return &xmlChapter{node: node}, true
}

type xmlChapter struct {
	node *xmlquery.Node
}

func (c *xmlChapter) Verses() []Verse {
	nodes := xmlquery.QuerySelectorAll(c.node, verseQuery)
	verses := make([]Verse, 0, len(nodes))
	for _, vn := range nodes {
		num, err := strconv.Atoi(vn.SelectAttr("number"))
		if err != nil {
			continue
		}
		verses = append(verses, Verse{Number: num, Text: strings.TrimSpace(vn.InnerText())})
	}
	return verses
}
