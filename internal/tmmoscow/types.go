// Package tmmoscow извлекает структурированные данные о соревнованиях
// из HTML-страниц tmmoscow.ru.
package tmmoscow

import (
	"errors"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Host канонический хост сайта
	Host = "www.tmmoscow.ru"
	// BaseURL адрес сайта, относительно которого разрешаются ссылки
	BaseURL = "http://" + Host
	// IndexPath путь, через который отдаются все страницы новостей
	IndexPath = "/index.php"
	// IndexURL полный адрес index.php
	IndexURL = BaseURL + IndexPath
)

// Ошибки извлечения. Все они означают, что вёрстка страницы
// не совпала с ожидаемой.
var (
	ErrUnexpectedLayout = errors.New("unexpected page layout")
	ErrUnknownCategory  = errors.New("unknown distance category")
	ErrUnknownMonth     = errors.New("unknown month name")
)

// CompetitionSummary краткие сведения о соревновании из списка новостей
type CompetitionSummary struct {
	ID            int
	Title         string
	EventDates    *string
	EventBeginsAt *time.Time
	EventEndsAt   *time.Time
	Location      *string
	Views         *int
	UpdatedAt     *time.Time
	LogoURL       *string
}

// URL ссылка на страницу соревнования
func (s CompetitionSummary) URL() string {
	return IndexURL + "?go=News&in=view&id=" + strconv.Itoa(s.ID)
}

// CompetitionDetail полная страница соревнования
type CompetitionDetail struct {
	CompetitionSummary

	Author        *string
	ContentBlocks []ContentBlock
	// CreatedAt заполняется только при запросе страницы для печати
	CreatedAt *time.Time
}

// ContentBlock раздел объявления с заголовком
type ContentBlock struct {
	Title string
	Lines []ContentItem
}

// ContentItem элемент раздела: ContentLine или ContentSubtitle
type ContentItem interface {
	contentItem()
	HTML() string
}

// ContentLine строка объявления с необязательным комментарием
type ContentLine struct {
	Markup  string
	Comment *string
}

func (ContentLine) contentItem() {}

// HTML возвращает очищенный фрагмент строки
func (l ContentLine) HTML() string { return l.Markup }

// Links href всех ссылок строки в порядке появления
func (l ContentLine) Links() []string {
	var links []string
	parseFragment(l.Markup).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		links = append(links, a.AttrOr("href", ""))
	})
	return links
}

// ContentSubtitle подзаголовок внутри раздела
type ContentSubtitle struct {
	Markup string
}

func (ContentSubtitle) contentItem() {}

// HTML возвращает фрагмент подзаголовка
func (s ContentSubtitle) HTML() string { return s.Markup }

// File файл, приложенный к соревнованию
type File struct {
	Filename string
	// Content равен nil, если файл скачать не удалось
	Content    []byte
	URL        string
	SHA256Hash string
}
