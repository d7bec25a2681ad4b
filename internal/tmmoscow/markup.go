package tmmoscow

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// parseFragment разбирает кусок HTML. Парсер оборачивает его в <html><body>.
func parseFragment(markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// чтение из strings.Reader не возвращает ошибок
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

// bodyInnerHTML возвращает разметку внутри синтетического <body> без самих тегов
func bodyInnerHTML(doc *goquery.Document) (string, error) {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", fmt.Errorf("%w: fragment has no body", ErrUnexpectedLayout)
	}
	return body.Html()
}

// hasVisibleText сообщает, есть ли во фрагменте непустой текст
func hasVisibleText(markup string) bool {
	return selectionHasText(parseFragment(markup).Selection)
}

func selectionHasText(sel *goquery.Selection) bool {
	return strings.TrimSpace(sel.Text()) != ""
}

// queryParam возвращает значение параметра name из строки запроса.
// Отсутствие параметра не ошибка; ошибка только для неразбираемого URL.
func queryParam(rawURL, name string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	return u.Query().Get(name), nil
}

// textLines собирает непустые текстовые узлы выборки по порядку документа
func textLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// ownText текст только прямых потомков узла, без вложенных тегов
func ownText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.TextNode {
				continue
			}
			if t := strings.TrimSpace(c.Data); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, "")
}

// absoluteURL разрешает ссылку относительно base; неразбираемые ссылки
// возвращаются как есть
func absoluteURL(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// plainText текст фрагмента разметки
func plainText(markup string) string {
	return strings.TrimSpace(parseFragment(markup).Text())
}
