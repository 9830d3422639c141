package ui

import (
	"bytes"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
)

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().ChromaStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return strings.TrimRight(buf.String(), "\n")
}

// renderMessageText renders message text wrapped to width, with fenced code
// blocks highlighted and left unwrapped.
func renderMessageText(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var out []string
	var prose []string
	var code strings.Builder
	inCode := false
	lang := ""

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		out = append(out, MessageTextStyle.Width(width).Render(strings.Join(prose, "\n")))
		prose = nil
	}
	flushCode := func() {
		block := highlightCode(code.String(), lang)
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			lines = append(lines, ansi.Truncate(line, width, "…"))
		}
		out = append(out, MessageCodeBlockStyle.Render(strings.Join(lines, "\n")))
		code.Reset()
		lang = ""
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inCode {
				flushProse()
				inCode = true
				lang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
			} else {
				inCode = false
				flushCode()
			}
			continue
		}
		if inCode {
			if code.Len() > 0 {
				code.WriteString("\n")
			}
			code.WriteString(line)
		} else {
			prose = append(prose, line)
		}
	}

	// An unterminated fence still renders as code.
	if inCode {
		flushCode()
	}
	flushProse()

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// truncate cuts s to width display cells, keeping ANSI sequences intact.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
