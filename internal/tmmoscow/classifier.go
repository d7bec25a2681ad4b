package tmmoscow

import (
	"regexp"
	"strings"
	"unicode"
)

// LineKind структурный тип строки содержимого
type LineKind int

// Типы строк содержимого
const (
	LineTitle LineKind = iota + 1
	LineSubtitle
	LineTitleUnderline
	LineFullOrBeginning
	LineContinuationOrText
)

func (k LineKind) String() string {
	switch k {
	case LineTitle:
		return "title"
	case LineSubtitle:
		return "subtitle"
	case LineTitleUnderline:
		return "title_underline"
	case LineFullOrBeginning:
		return "full_line_or_line_beginning"
	case LineContinuationOrText:
		return "line_continuation_or_text"
	default:
		return "unknown"
	}
}

// dashLinePattern строка объявления начинается с дефиса
var dashLinePattern = regexp.MustCompile(`^\s*-`)

// ClassifyLine определяет тип одной строки разметки (кусок ячейки между <br>).
//
// Заголовки на сайте оформлены как <b><font color=...>ЗАГЛУШКА</font></b>
// прописными буквами, строка из "=" под ними декоративная, подзаголовки
// выделены жирным, а строки объявления начинаются с дефиса.
func ClassifyLine(markup string) LineKind {
	doc := parseFragment(markup)
	text := strings.TrimSpace(doc.Text())

	if doc.Find("b > font").Length() > 0 {
		if isUnderline(text) {
			return LineTitleUnderline
		}
		if !strings.ContainsFunc(text, unicode.IsLower) {
			return LineTitle
		}
	}
	if doc.Find("b").Length() > 0 {
		if !dashLinePattern.MatchString(text) && doc.Find("a[href]").Length() == 0 {
			return LineSubtitle
		}
		return LineFullOrBeginning
	}
	if dashLinePattern.MatchString(text) {
		return LineFullOrBeginning
	}
	return LineContinuationOrText
}

func isUnderline(text string) bool {
	return text != "" && strings.Trim(text, "=") == ""
}
