// Package blocks converts between serialized post content and block trees.
//
// Serialized content uses HTML comment delimiters:
//
//	<!-- wp:paragraph {"align":"center"} --><p>Hi</p><!-- /wp:paragraph -->
//	<!-- wp:spacer /-->
//
// HTML outside any block becomes a core/freeform block, whitespace included,
// so Serialize(Parse(doc)) reproduces doc.
package blocks

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/google/uuid"
)

const (
	// FreeformName is the block name given to HTML found between blocks
	FreeformName     = "core/freeform"
	defaultNamespace = "core/"
)

// delimiter matches block openers, closers, and void blocks. The attribute
// object ends at the first "}" followed by whitespace and the comment close.
var delimiter = regexp.MustCompile(`<!--\s+(/)?wp:([a-z][a-z0-9_-]*(?:/[a-z][a-z0-9_-]*)?)\s+(?:(\{[\s\S]*?\})\s+)?(/)?-->`)

type frame struct {
	block *models.Block
}

type parser struct {
	doc    string
	output []models.Block
	stack  []frame
}

// Parse returns the block tree of serialized post content
func Parse(doc string) []models.Block {
	p := &parser{doc: doc}
	pos := 0
	for _, loc := range delimiter.FindAllStringSubmatchIndex(doc, -1) {
		start, end := loc[0], loc[1]
		p.addHTML(doc[pos:start])

		closer := loc[2] >= 0
		name := normalizeName(doc[loc[4]:loc[5]])
		void := loc[8] >= 0
		var attrs map[string]any
		if loc[6] >= 0 {
			attrs = decodeAttrs(doc[loc[6]:loc[7]])
		}

		switch {
		case closer:
			if !p.close(name) {
				p.addHTML(doc[start:end])
			}
		case void:
			p.attach(newBlock(name, attrs))
		default:
			b := newBlock(name, attrs)
			p.stack = append(p.stack, frame{block: &b})
		}
		pos = end
	}
	p.addHTML(doc[pos:])

	// Unclosed blocks end at the end of the document.
	for len(p.stack) > 0 {
		p.pop()
	}
	return p.output
}

func newBlock(name string, attrs map[string]any) models.Block {
	return models.Block{
		ClientID:   uuid.New().String(),
		Name:       name,
		Attributes: attrs,
	}
}

func normalizeName(name string) string {
	if !strings.Contains(name, "/") {
		return defaultNamespace + name
	}
	return name
}

func decodeAttrs(raw string) map[string]any {
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil
	}
	return attrs
}

// addHTML appends markup to the open block, or emits it as freeform at top level
func (p *parser) addHTML(html string) {
	if html == "" {
		return
	}
	if len(p.stack) == 0 {
		p.output = append(p.output, models.Block{
			ClientID:     uuid.New().String(),
			Name:         FreeformName,
			InnerHTML:    html,
			InnerContent: []*string{&html},
		})
		return
	}
	top := p.stack[len(p.stack)-1].block
	top.InnerHTML += html
	top.InnerContent = append(top.InnerContent, &html)
}

// attach places a finished block in its parent or the output
func (p *parser) attach(b models.Block) {
	if len(p.stack) == 0 {
		p.output = append(p.output, b)
		return
	}
	parent := p.stack[len(p.stack)-1].block
	parent.InnerBlocks = append(parent.InnerBlocks, b)
	parent.InnerContent = append(parent.InnerContent, nil)
}

// close ends the innermost open block when its name matches
func (p *parser) close(name string) bool {
	if len(p.stack) == 0 || p.stack[len(p.stack)-1].block.Name != name {
		return false
	}
	p.pop()
	return true
}

func (p *parser) pop() {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.attach(*top.block)
}
