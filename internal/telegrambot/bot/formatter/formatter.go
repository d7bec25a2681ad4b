// Package formatter готовит сообщения Telegram из данных о соревнованиях.
package formatter

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"tmmoscow/internal/tmmoscow"
)

// MaxMessageLength ограничение Telegram на длину текста сообщения
const MaxMessageLength = 4096

const dateTimeFormat = "02.01.2006 15:04"

var (
	// telegramPolicy оставляет только теги, которые понимает Telegram
	telegramPolicy = newTelegramPolicy()
	// textPolicy удаляет всю разметку
	textPolicy = bluemonday.StrictPolicy()
)

func newTelegramPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.RequireParseableURLs(true)
	return p
}

// Sanitize приводит фрагмент разметки сайта к подмножеству HTML Telegram
func Sanitize(markup string) string {
	return strings.TrimSpace(telegramPolicy.Sanitize(markup))
}

// Categories список категорий с тегами для /recent
func Categories() string {
	var b strings.Builder
	b.WriteString("<b>Категории дистанций</b>\n\n")
	for _, c := range tmmoscow.Categories() {
		fmt.Fprintf(&b, "%s - <code>%s</code>\n", html.EscapeString(c.Title()), c)
	}
	b.WriteString("\nПример: /recent walking")
	return b.String()
}

// Summaries список соревнований категории
func Summaries(category tmmoscow.DistanceCategory, page int, summaries []tmmoscow.CompetitionSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>, страница %d\n", html.EscapeString(category.Title()), page)

	if len(summaries) == 0 {
		b.WriteString("\nСоревнований не найдено")
		return b.String()
	}

	for _, s := range summaries {
		b.WriteString("\n")
		b.WriteString(Summary(s))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Summary краткая карточка соревнования с командой для подробностей
func Summary(s tmmoscow.CompetitionSummary) string {
	parts := append(summaryLines(s), "/competition_"+strconv.Itoa(s.ID))
	return strings.Join(parts, "\n")
}

func summaryLines(s tmmoscow.CompetitionSummary) []string {
	parts := []string{fmt.Sprintf("🏕 <b>%s</b>", html.EscapeString(s.Title))}
	if s.EventDates != nil {
		parts = append(parts, fmt.Sprintf("📅 %s", html.EscapeString(*s.EventDates)))
	}
	if s.Location != nil {
		parts = append(parts, fmt.Sprintf("📍 %s", html.EscapeString(*s.Location)))
	}
	return parts
}

// Detail полная страница соревнования, разбитая на сообщения
func Detail(detail *tmmoscow.CompetitionDetail) []string {
	lines := []string{Header(detail)}

	for _, block := range detail.ContentBlocks {
		lines = append(lines, "", fmt.Sprintf("<b>%s</b>", html.EscapeString(block.Title)))
		for _, item := range block.Lines {
			if line := contentItem(item); line != "" {
				lines = append(lines, line)
			}
		}
	}

	return Split(lines, MaxMessageLength)
}

// Header шапка страницы соревнования
func Header(detail *tmmoscow.CompetitionDetail) string {
	parts := summaryLines(detail.CompetitionSummary)

	if detail.Author != nil {
		parts = append(parts, fmt.Sprintf("✍️ %s", html.EscapeString(*detail.Author)))
	}
	if detail.CreatedAt != nil {
		parts = append(parts, "🆕 Опубликовано "+detail.CreatedAt.Format(dateTimeFormat))
	}
	if detail.UpdatedAt != nil {
		parts = append(parts, "🔄 Обновлено "+detail.UpdatedAt.Format(dateTimeFormat))
	}
	if detail.Views != nil {
		parts = append(parts, fmt.Sprintf("👁 %d", *detail.Views))
	}
	parts = append(parts, fmt.Sprintf(`<a href="%s">Страница на сайте</a>`, html.EscapeString(detail.URL())))
	return strings.Join(parts, "\n")
}

func contentItem(item tmmoscow.ContentItem) string {
	switch v := item.(type) {
	case tmmoscow.ContentLine:
		line := Sanitize(v.Markup)
		if v.Comment != nil {
			comment := html.EscapeString(*v.Comment)
			if line == "" {
				return "<i>" + comment + "</i>"
			}
			line += " <i>(" + comment + ")</i>"
		}
		return line
	case tmmoscow.ContentSubtitle:
		if text := Sanitize(v.Markup); text != "" {
			return "<u>" + text + "</u>"
		}
		return ""
	default:
		panic(fmt.Sprintf("formatter: unsupported content item %T", item))
	}
}

// Files подпись к списку приложенных файлов
func Files(files []tmmoscow.File) string {
	var loaded, missing []string
	for _, f := range files {
		link := fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(f.URL), html.EscapeString(f.Filename))
		if f.Content == nil {
			missing = append(missing, link)
		} else {
			loaded = append(loaded, link)
		}
	}

	var b strings.Builder
	if len(loaded) > 0 {
		fmt.Fprintf(&b, "📎 Файлы (%d):\n%s", len(loaded), strings.Join(loaded, "\n"))
	}
	if len(missing) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "⚠️ Не удалось скачать:\n%s", strings.Join(missing, "\n"))
	}
	return b.String()
}

// Split собирает строки в сообщения не длиннее limit символов.
// Строки не разрываются, кроме тех, что сами длиннее limit:
// они переводятся в текст без разметки и режутся по символам.
func Split(lines []string, limit int) []string {
	var messages []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			messages = append(messages, text)
		}
		current.Reset()
		currentLen = 0
	}

	for _, line := range lines {
		lineLen := utf8.RuneCountInString(line)
		if lineLen > limit {
			flush()
			chunks := cutText(textPolicy.Sanitize(line), limit)
			messages = append(messages, chunks[:len(chunks)-1]...)
			last := chunks[len(chunks)-1]
			current.WriteString(last)
			currentLen = utf8.RuneCountInString(last)
			continue
		}

		sep := 0
		if currentLen > 0 {
			sep = 1
		}
		if currentLen+sep+lineLen > limit {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
		currentLen += sep + lineLen
	}
	flush()
	return messages
}

// cutText режет экранированный текст на куски по limit символов,
// не разрывая HTML-сущности. Всегда возвращает хотя бы один кусок.
func cutText(text string, limit int) []string {
	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		chunk := string(runes[:cut])
		if amp := strings.LastIndexByte(chunk, '&'); amp > strings.LastIndexByte(chunk, ';') && amp > 0 {
			cut = utf8.RuneCountInString(chunk[:amp])
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}
