package tmmoscow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Селекторы таблиц в вёрстке сайта. Семантической разметки на сайте нет,
// поэтому таблицы находятся только по позиции.
const (
	listingTableSelector = "body > table:nth-child(4) > tbody > tr > td:nth-child(3) > table:nth-child(8) > tbody"
	detailTableSelector  = "body > table:nth-child(4) > tbody > tr > td:nth-child(3) > table:nth-child(7) > tbody"
	printHeaderSelector  = "body > div > b"
)

const (
	listingChunkSize  = 5
	minSummaryRows    = 3
	detailMetadataRow = 3
	detailContentRow  = 5
	detailAuthorRow   = 7
)

var (
	// eventDatesLocationPattern даты и место проведения до ближайшего <br>
	eventDatesLocationPattern = regexp.MustCompile(`(?i)(?:<br\s*/?>)?\s*(?P<span>` + eventDatesExpr + `.*?)<br\s*/?>`)
	viewsPattern              = regexp.MustCompile(`(?i)Прочита(?:на|но|ли):\s*(?P<views>\d+)`)
	authorPattern             = regexp.MustCompile(`(?i)^Автор:\s*(?P<author>[а-яА-Яa-zA-Z]+)`)
)

// parseListing разбирает страницу категории. Отсутствие таблицы новостей
// означает, что страниц с таким смещением нет.
func (e *extractor) parseListing(markup string, category DistanceCategory) ([]CompetitionSummary, error) {
	doc := parseFragment(markup)
	news := doc.Find(listingTableSelector).First()
	if news.Length() == 0 {
		return []CompetitionSummary{}, nil
	}

	rows := news.ChildrenFiltered("tr")
	summaries := make([]CompetitionSummary, 0, rows.Length()/listingChunkSize+1)
	for start := 0; start < rows.Length(); start += listingChunkSize {
		end := min(start+listingChunkSize, rows.Length())
		summary, err := e.parseListingChunk(rows.Slice(start, end), category)
		if err != nil {
			return nil, fmt.Errorf("rows %d-%d: %w", start, end-1, err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// parseListingChunk строки: заголовок, метаданные, просмотры и две пустые
func (e *extractor) parseListingChunk(rows *goquery.Selection, category DistanceCategory) (CompetitionSummary, error) {
	if rows.Length() < minSummaryRows {
		return CompetitionSummary{}, fmt.Errorf("%w: summary needs %d rows, got %d", ErrUnexpectedLayout, minSummaryRows, rows.Length())
	}
	titleRow := rows.Eq(0)

	href, ok := titleRow.Find("td > a").First().Attr("href")
	if !ok {
		return CompetitionSummary{}, fmt.Errorf("%w: title row has no link", ErrUnexpectedLayout)
	}
	id, err := intParam(href, "id")
	if err != nil {
		return CompetitionSummary{}, err
	}

	return e.buildSummary(rows, 1, id, collapsedText(titleRow), category)
}

// parseDetailSummary строки страницы соревнования: 0 заголовок со ссылкой
// на категорию, 3 метаданные. Идентификатор берётся из запроса.
func (e *extractor) parseDetailSummary(rows *goquery.Selection, id int) (CompetitionSummary, error) {
	if rows.Length() <= detailMetadataRow {
		return CompetitionSummary{}, fmt.Errorf("%w: competition table has %d rows", ErrUnexpectedLayout, rows.Length())
	}
	titleRow := rows.Eq(0)

	titleNode := titleRow.Find("td > font").First()
	if titleNode.Length() == 0 {
		return CompetitionSummary{}, fmt.Errorf("%w: no title in competition table", ErrUnexpectedLayout)
	}
	href, ok := titleRow.Find("td > a").First().Attr("href")
	if !ok {
		return CompetitionSummary{}, fmt.Errorf("%w: no category link in competition table", ErrUnexpectedLayout)
	}
	categoryID, err := intParam(href, "id")
	if err != nil {
		return CompetitionSummary{}, err
	}
	category, ok := CategoryByID(categoryID)
	if !ok {
		return CompetitionSummary{}, fmt.Errorf("%w: site category id %d", ErrUnknownCategory, categoryID)
	}

	return e.buildSummary(rows, detailMetadataRow, id, collapsedText(titleNode), category)
}

// buildSummary общая часть разбора для обоих типов страниц
func (e *extractor) buildSummary(rows *goquery.Selection, metadataIdx, id int, title string, category DistanceCategory) (CompetitionSummary, error) {
	summary := CompetitionSummary{ID: id}

	if e.normalizeTitles {
		normalized, err := NormalizeTitle(title, category)
		if err != nil {
			return CompetitionSummary{}, err
		}
		summary.Title = normalized
	} else {
		summary.Title = trimTitle(title)
	}

	metadata := rows.Eq(metadataIdx)
	if lines := textLines(metadata); len(lines) >= 2 {
		summary.UpdatedAt = parseUpdatedAt(lines[1], e.location)
	}

	if src, ok := metadata.Find("a > img").First().Attr("src"); ok && src != "" {
		logo := absoluteURL(e.baseURL, src)
		summary.LogoURL = &logo
	}
	// ссылки в метаданных только оформление, в поиске дат они мешают
	cleanMetadata := metadata.Clone()
	cleanMetadata.Find("a").Remove()

	for i := range rows.Length() {
		var rowHTML string
		var err error
		if i == metadataIdx {
			rowHTML, err = goquery.OuterHtml(cleanMetadata)
		} else {
			rowHTML, err = goquery.OuterHtml(rows.Eq(i))
		}
		if err != nil {
			return CompetitionSummary{}, fmt.Errorf("render row %d: %w", i, err)
		}

		m := eventDatesLocationPattern.FindStringSubmatch(rowHTML)
		if m == nil {
			continue
		}
		span := m[eventDatesLocationPattern.SubexpIndex("span")]
		if err := e.fillEventDates(&summary, span); err != nil {
			return CompetitionSummary{}, err
		}
		break
	}

	for i := minSummaryRows - 1; i < rows.Length(); i++ {
		m := viewsPattern.FindStringSubmatch(collapsedText(rows.Eq(i)))
		if m == nil {
			continue
		}
		views, err := strconv.Atoi(m[viewsPattern.SubexpIndex("views")])
		if err != nil {
			return CompetitionSummary{}, fmt.Errorf("%w: views %q", ErrUnexpectedLayout, m[0])
		}
		summary.Views = &views
		break
	}

	return summary, nil
}

// fillEventDates делит "5-7 октября 2023, Москва" по первой запятой
func (e *extractor) fillEventDates(summary *CompetitionSummary, span string) error {
	datesPart, locationPart, hasLocation := strings.Cut(span, ",")

	dates := plainText(datesPart)
	summary.EventDates = &dates
	if hasLocation {
		if location := plainText(locationPart); location != "" {
			summary.Location = &location
		}
	}

	begins, ends, err := ParseDateRange(plainText(span))
	if err != nil {
		return err
	}
	summary.EventBeginsAt, summary.EventEndsAt = begins, ends
	return nil
}

// parseAuthor автор из 8-й строки; в старых статьях ищется "Автор: ..." снизу вверх
func parseAuthor(rows *goquery.Selection) *string {
	if rows.Length() > detailAuthorRow {
		if author := ownText(rows.Eq(detailAuthorRow).Find("td").First()); author != "" {
			return &author
		}
	}
	for i := rows.Length() - 1; i >= 0; i-- {
		m := authorPattern.FindStringSubmatch(collapsedText(rows.Eq(i)))
		if m != nil {
			author := m[authorPattern.SubexpIndex("author")]
			return &author
		}
	}
	return nil
}

func intParam(href, name string) (int, error) {
	value, err := queryParam(href, name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnexpectedLayout, err)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %s=%q in %q", ErrUnexpectedLayout, name, value, href)
	}
	return n, nil
}

// collapsedText текст выборки с нормализованными пробелами
func collapsedText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
