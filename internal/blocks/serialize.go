package blocks

import (
	"encoding/json"
	"strings"

	"github.com/deCybercop/wp-calypso/internal/models"
)

// Serialize renders blocks back into post content
func Serialize(blocks []models.Block) string {
	var sb strings.Builder
	for i := range blocks {
		writeBlock(&sb, &blocks[i])
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, b *models.Block) {
	if b.Name == FreeformName {
		sb.WriteString(b.InnerHTML)
		return
	}

	name := strings.TrimPrefix(b.Name, defaultNamespace)
	sb.WriteString("<!-- wp:")
	sb.WriteString(name)
	sb.WriteString(" ")
	if len(b.Attributes) > 0 {
		if data, err := json.Marshal(b.Attributes); err == nil {
			sb.Write(data)
			sb.WriteString(" ")
		}
	}

	if b.InnerHTML == "" && len(b.InnerBlocks) == 0 {
		sb.WriteString("/-->")
		return
	}
	sb.WriteString("-->")

	if len(b.InnerContent) > 0 {
		child := 0
		for _, part := range b.InnerContent {
			if part == nil {
				if child < len(b.InnerBlocks) {
					writeBlock(sb, &b.InnerBlocks[child])
					child++
				}
				continue
			}
			sb.WriteString(*part)
		}
	} else {
		sb.WriteString(b.InnerHTML)
		for i := range b.InnerBlocks {
			writeBlock(sb, &b.InnerBlocks[i])
		}
	}

	sb.WriteString("<!-- /wp:")
	sb.WriteString(name)
	sb.WriteString(" -->")
}

// Walk calls fn for every block depth-first, parents before children.
// fn may modify the block in place.
func Walk(blocks []models.Block, fn func(b *models.Block)) {
	for i := range blocks {
		fn(&blocks[i])
		Walk(blocks[i].InnerBlocks, fn)
	}
}

// Find returns the first block with the given name, or nil
func Find(blocks []models.Block, name string) *models.Block {
	for i := range blocks {
		if blocks[i].Name == name {
			return &blocks[i]
		}
		if found := Find(blocks[i].InnerBlocks, name); found != nil {
			return found
		}
	}
	return nil
}

// FindByClientID returns the block with the given client ID, or nil
func FindByClientID(blocks []models.Block, clientID string) *models.Block {
	for i := range blocks {
		if blocks[i].ClientID == clientID {
			return &blocks[i]
		}
		if found := FindByClientID(blocks[i].InnerBlocks, clientID); found != nil {
			return found
		}
	}
	return nil
}

// Count returns the number of blocks in the tree, inner blocks included
func Count(blocks []models.Block) int {
	n := 0
	Walk(blocks, func(*models.Block) { n++ })
	return n
}

// Clone returns a deep copy of the tree. Attribute values are copied
// shallowly.
func Clone(in []models.Block) []models.Block {
	if in == nil {
		return nil
	}
	out := make([]models.Block, len(in))
	for i, b := range in {
		out[i] = b
		if b.Attributes != nil {
			out[i].Attributes = make(map[string]any, len(b.Attributes))
			for k, v := range b.Attributes {
				out[i].Attributes[k] = v
			}
		}
		if b.InnerContent != nil {
			out[i].InnerContent = make([]*string, len(b.InnerContent))
			for j, part := range b.InnerContent {
				if part != nil {
					s := *part
					out[i].InnerContent[j] = &s
				}
			}
		}
		out[i].InnerBlocks = Clone(b.InnerBlocks)
	}
	return out
}
