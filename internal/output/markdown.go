package output

import (
	"fmt"
	"html"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/deCybercop/wp-calypso/internal/models"
	"golang.org/x/term"
)

const (
	defaultMarkdownWidth = 80
	minMarkdownWidth     = 20
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	imgPattern   = regexp.MustCompile(`<img[^>]*\bsrc="([^"]*)"[^>]*>`)
	altPattern   = regexp.MustCompile(`\balt="([^"]*)"`)
	itemPattern  = regexp.MustCompile(`(?s)<li[^>]*>(.*?)</li>`)
	blankPattern = regexp.MustCompile(`\n{3,}`)
)

// TerminalWidth returns the current terminal width or a fallback when unavailable.
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = defaultMarkdownWidth
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if parsed, err := strconv.Atoi(cols); err == nil && parsed > 0 {
			return parsed
		}
	}

	return fallback
}

// IsTerminal reports whether stdout is attached to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RenderMarkdown renders markdown using Glamour with terminal-aware wrapping.
func RenderMarkdown(text string) (string, error) {
	return RenderMarkdownWithWidth(text, TerminalWidth(defaultMarkdownWidth))
}

// RenderMarkdownWithWidth renders markdown using Glamour with explicit wrapping.
func RenderMarkdownWithWidth(text string, width int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(rendered, "\n"), nil
}

// BlocksMarkdown approximates a block tree as markdown for terminal preview
func BlocksMarkdown(blocks []models.Block) string {
	var sb strings.Builder
	writeBlocksMarkdown(&sb, blocks)
	return strings.TrimSpace(blankPattern.ReplaceAllString(sb.String(), "\n\n"))
}

func writeBlocksMarkdown(sb *strings.Builder, blocks []models.Block) {
	for _, b := range blocks {
		switch b.Name {
		case "core/heading":
			level := 2
			if l, ok := b.Attributes["level"].(float64); ok && l >= 1 && l <= 6 {
				level = int(l)
			}
			fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), plainText(b.InnerHTML))
		case "core/image", "core/cover":
			src, _ := b.Attributes["url"].(string)
			alt, _ := b.Attributes["alt"].(string)
			if m := imgPattern.FindStringSubmatch(b.InnerHTML); src == "" && m != nil {
				src = m[1]
			}
			if m := altPattern.FindStringSubmatch(b.InnerHTML); alt == "" && m != nil {
				alt = m[1]
			}
			if src != "" {
				fmt.Fprintf(sb, "![%s](%s)\n\n", alt, src)
			}
		case "core/list":
			for _, item := range itemPattern.FindAllStringSubmatch(b.InnerHTML, -1) {
				fmt.Fprintf(sb, "- %s\n", plainText(item[1]))
			}
			sb.WriteString("\n")
		case "core/quote":
			fmt.Fprintf(sb, "> %s\n\n", plainText(b.InnerHTML))
		case "core/separator":
			sb.WriteString("---\n\n")
		default:
			if text := plainText(b.InnerHTML); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
		}
		writeBlocksMarkdown(sb, b.InnerBlocks)
	}
}

func plainText(markup string) string {
	text := html.UnescapeString(tagPattern.ReplaceAllString(markup, ""))
	return strings.Join(strings.Fields(text), " ")
}
