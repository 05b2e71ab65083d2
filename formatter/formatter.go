// Package formatter turns loosely structured model output (code fences,
// headings, emphasis, bullet lists) into an HTML fragment for display.
//
// It is a chain of regular-expression substitutions, not a markdown parser:
// unbalanced markers are left as literal text and nested constructs are only
// recognised where a single pass can see them.
package formatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoResponse is returned for empty input.
const NoResponse = "<p>No response received.</p>"

var (
	taggedFenceRe   = regexp.MustCompile("```(\\w+)?\\n([\\s\\S]*?)```")
	untaggedFenceRe = regexp.MustCompile("```([\\s\\S]*?)```")
	inlineCodeRe    = regexp.MustCompile("`([^`\\n]+)`")
	headingRe       = regexp.MustCompile(`(?m)^(#{1,3})[ \t]+(.*)$`)
	boldItalicRe    = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldRe          = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe        = regexp.MustCompile(`\*(\S(?:.*?\S)?)\*`)
	listItemRe      = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+(.+)$`)
	placeholderRe   = regexp.MustCompile("\x00(\\d+)\x00")

	escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\x00", "")
)

// Format converts raw response text into a markup fragment. It never fails.
func Format(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return NoResponse
	}

	f := &fragment{}
	text := escaper.Replace(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	text = taggedFenceRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := taggedFenceRe.FindStringSubmatch(m)
		return f.holdBlock(codeBlock(sub[1], sub[2]))
	})
	text = untaggedFenceRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := untaggedFenceRe.FindStringSubmatch(m)
		return f.holdBlock(codeBlock("", sub[1]))
	})
	text = inlineCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := inlineCodeRe.FindStringSubmatch(m)
		return f.hold(`<code class="inline-code">` + sub[1] + `</code>`)
	})

	text = headingRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := headingRe.FindStringSubmatch(m)
		level := len(sub[1])
		return fmt.Sprintf("<h%d>%s</h%d>", level, sub[2], level)
	})

	text = boldItalicRe.ReplaceAllString(text, "<strong><em>${1}</em></strong>")
	text = boldRe.ReplaceAllString(text, "<strong>${1}</strong>")
	text = italicRe.ReplaceAllString(text, "<em>${1}</em>")

	text = listItemRe.ReplaceAllString(text, "<li>${1}</li>")

	return f.release(f.assemble(text))
}

func codeBlock(lang, body string) string {
	var b strings.Builder
	b.WriteString(`<div class="code-block">`)
	if lang != "" {
		b.WriteString(`<div class="code-header">` + lang + `</div>`)
	}
	b.WriteString("<pre><code>" + body + "</code></pre></div>")
	return b.String()
}

// fragment keeps finished markup out of reach of later substitution rules.
type fragment struct {
	held   []string
	blocks map[string]bool
}

func (f *fragment) hold(markup string) string {
	f.held = append(f.held, markup)
	return "\x00" + strconv.Itoa(len(f.held)-1) + "\x00"
}

func (f *fragment) holdBlock(markup string) string {
	token := f.hold(markup)
	if f.blocks == nil {
		f.blocks = make(map[string]bool)
	}
	f.blocks[token] = true
	return token
}

func (f *fragment) release(text string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		i, err := strconv.Atoi(strings.Trim(m, "\x00"))
		if err != nil || i >= len(f.held) {
			return ""
		}
		return f.held[i]
	})
}

type lineKind int

const (
	lineText lineKind = iota
	lineBlank
	lineBlock
	lineItem
)

func (f *fragment) classify(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return lineBlank
	case strings.HasPrefix(trimmed, "<li>") && strings.HasSuffix(trimmed, "</li>"):
		return lineItem
	case isHeading(trimmed), f.blocks[trimmed]:
		return lineBlock
	}
	return lineText
}

func isHeading(line string) bool {
	return len(line) > 4 && line[0] == '<' && line[1] == 'h' && line[2] >= '1' && line[2] <= '3' && line[3] == '>'
}

// assemble groups lines into paragraphs, list containers and standalone
// blocks. Text lines inside a paragraph are joined with <br>; blank lines
// close the paragraph; a paragraph with no text is never emitted.
func (f *fragment) assemble(text string) string {
	var out strings.Builder
	var para []string
	var items []string

	flushPara := func() {
		if len(para) > 0 {
			out.WriteString("<p>" + strings.Join(para, "<br>") + "</p>")
			para = nil
		}
	}
	flushList := func() {
		if len(items) > 0 {
			out.WriteString("<ul>" + strings.Join(items, "") + "</ul>")
			items = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		switch f.classify(line) {
		case lineBlank:
			flushPara()
			flushList()
		case lineItem:
			flushPara()
			items = append(items, strings.TrimSpace(line))
		case lineBlock:
			flushPara()
			flushList()
			out.WriteString(strings.TrimSpace(line))
		default:
			flushList()
			para = append(para, line)
		}
	}
	flushPara()
	flushList()
	return out.String()
}
