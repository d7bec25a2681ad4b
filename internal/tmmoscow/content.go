package tmmoscow

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	lineBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)
	// leadingDashPattern дефис в начале строки, возможно внутри открывающих тегов.
	// &nbsp; после разбора становится U+00A0, который \s не покрывает.
	leadingDashPattern = regexp.MustCompile(`^((?:[\s\x{00a0}]*<[^/!>][^>]*>)*)[\s\x{00a0}]*-[\s\x{00a0}]*`)
)

// splitContentLines делит разметку ячейки на непустые строки по <br> и переводам строк
func splitContentLines(markup string) []string {
	parts := lineBreakPattern.Split(strings.ReplaceAll(markup, "\n", "<br>"), -1)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		if hasVisibleText(part) {
			lines = append(lines, strings.TrimSpace(part))
		}
	}
	return lines
}

// assembleContent собирает разделы объявления из разметки ячейки с содержимым.
// Границы разделов проходят по строкам-заголовкам; строки-продолжения
// приклеиваются к предыдущей строке объявления.
func (e *extractor) assembleContent(markup string) ([]ContentBlock, error) {
	lines := splitContentLines(markup)
	if len(lines) == 0 {
		return nil, nil
	}
	kinds := make([]LineKind, len(lines))
	for i, line := range lines {
		kinds[i] = ClassifyLine(line)
	}

	var (
		blocks  []ContentBlock
		title   string
		pending []ContentItem
	)
	seal := func() {
		blocks = append(blocks, ContentBlock{Title: title, Lines: pending})
		pending = nil
	}

	for i := 0; i < len(lines); i++ {
		kind := kinds[i]
		if kind == LineContinuationOrText || kind == LineTitleUnderline {
			continue
		}

		body, err := e.sanitizeAnchors(lines[i])
		if err != nil {
			return nil, err
		}
		body = leadingDashPattern.ReplaceAllString(body, "$1")

		switch kind {
		case LineTitle:
			if title != "" || len(pending) > 0 {
				seal()
			}
			title = plainText(body)

		case LineSubtitle:
			pending = append(pending, ContentSubtitle{Markup: body})

		case LineFullOrBeginning:
			body, comment, err := extractComment(body)
			if err != nil {
				return nil, err
			}
			for i+1 < len(lines) && kinds[i+1] == LineContinuationOrText {
				i++
				continuation, err := e.sanitizeAnchors(lines[i])
				if err != nil {
					return nil, err
				}
				body += "\n" + continuation
			}
			pending = append(pending, ContentLine{Markup: body, Comment: comment})
		}
	}
	if title != "" || len(pending) > 0 {
		seal()
	}
	return blocks, nil
}

// sanitizeAnchors оставляет у ссылок только href и делает его абсолютным.
// Каждый вызов разбирает строку заново и возвращает новую разметку.
func (e *extractor) sanitizeAnchors(line string) (string, error) {
	doc := parseFragment(line)
	for _, n := range doc.Find("a").Nodes {
		var kept []html.Attribute
		for _, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "href" {
				attr.Val = absoluteURL(e.baseURL, attr.Val)
				kept = append(kept, attr)
			}
		}
		n.Attr = kept
	}
	return bodyInnerHTML(doc)
}

// extractComment вынимает из строки комментарий, набранный через <font>
func extractComment(body string) (string, *string, error) {
	doc := parseFragment(body)
	font := doc.Find("font").First()
	if font.Length() == 0 {
		return body, nil, nil
	}

	var comment *string
	if text := strings.TrimSpace(font.Text()); text != "" {
		comment = &text
	}
	font.Remove()

	stripped, err := bodyInnerHTML(doc)
	if err != nil {
		return "", nil, err
	}
	return stripped, comment, nil
}
