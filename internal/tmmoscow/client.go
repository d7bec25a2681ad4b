package tmmoscow

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Fetcher транспорт до сайта
type Fetcher interface {
	// FetchPage возвращает декодированную страницу; ответ не 2xx считается ошибкой
	FetchPage(ctx context.Context, path string, params url.Values) (string, error)
	// FetchBytes возвращает содержимое файла или nil, если сервер ответил не 2xx
	FetchBytes(ctx context.Context, rawURL string) ([]byte, error)
}

// moscowTime время сайта. Фиксированная зона, чтобы не зависеть от tzdata.
var moscowTime = time.FixedZone("MSK", 3*60*60)

// extractor разбор страниц без обращения к сети
type extractor struct {
	baseURL         *url.URL
	location        *time.Location
	normalizeTitles bool
}

// Client получает и разбирает страницы сайта
type Client struct {
	extractor
	fetcher Fetcher
	logger  *zap.Logger
}

// Option настраивает Client
type Option func(*Client) error

// WithBaseURL адрес сайта, относительно которого разрешаются ссылки
func WithBaseURL(rawURL string) Option {
	return func(c *Client) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base url %q must be absolute", rawURL)
		}
		c.baseURL = u
		return nil
	}
}

// WithLocation часовой пояс для дат обновления и публикации
func WithLocation(loc *time.Location) Option {
	return func(c *Client) error {
		if loc == nil {
			return fmt.Errorf("location is nil")
		}
		c.location = loc
		return nil
	}
}

// WithRawTitles отключает удаление служебных хвостов из заголовков
func WithRawTitles() Option {
	return func(c *Client) error {
		c.normalizeTitles = false
		return nil
	}
}

// NewClient создает клиент поверх транспорта
func NewClient(fetcher Fetcher, logger *zap.Logger, opts ...Option) (*Client, error) {
	base, _ := url.Parse(BaseURL)
	c := &Client{
		extractor: extractor{
			baseURL:         base,
			location:        moscowTime,
			normalizeTitles: true,
		},
		fetcher: fetcher,
		logger:  logger,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ListRecent возвращает до 30 последних соревнований категории на странице offset.
// За последней страницей возвращается пустой список.
func (c *Client) ListRecent(ctx context.Context, category DistanceCategory, offset int) ([]CompetitionSummary, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	params := url.Values{
		"go":   {"News"},
		"in":   {"cat"},
		"id":   {strconv.Itoa(category.ID())},
		"page": {strconv.Itoa(offset)},
	}
	markup, err := c.fetcher.FetchPage(ctx, IndexPath, params)
	if err != nil {
		return nil, fmt.Errorf("fetch category %s page %d: %w", category, offset, err)
	}

	summaries, err := c.parseListing(markup, category)
	if err != nil {
		return nil, fmt.Errorf("parse category %s page %d: %w", category, offset, err)
	}
	c.logger.Debug("Parsed category page",
		zap.Stringer("category", category),
		zap.Int("offset", offset),
		zap.Int("competitions", len(summaries)))
	return summaries, nil
}

// DetailOptions дополнительные данные для GetDetail
type DetailOptions struct {
	// WithCreatedAt запрашивает страницу для печати ради даты публикации
	WithCreatedAt bool
	// WithFiles скачивает приложенные pdf
	WithFiles bool
}

// GetDetail возвращает полную страницу соревнования. Файлы возвращаются
// только при opts.WithFiles.
func (c *Client) GetDetail(ctx context.Context, id int, opts DetailOptions) (*CompetitionDetail, []File, error) {
	viewParams := url.Values{"go": {"News"}, "in": {"view"}, "id": {strconv.Itoa(id)}}

	var markup, printMarkup string
	if !opts.WithCreatedAt {
		var err error
		if markup, err = c.fetcher.FetchPage(ctx, IndexPath, viewParams); err != nil {
			return nil, nil, fmt.Errorf("fetch competition %d: %w", id, err)
		}
	} else {
		printParams := url.Values{"go": {"News"}, "file": {"print"}, "id": {strconv.Itoa(id)}}
		var viewErr, printErr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			markup, viewErr = c.fetcher.FetchPage(ctx, IndexPath, viewParams)
		}()
		go func() {
			defer wg.Done()
			printMarkup, printErr = c.fetcher.FetchPage(ctx, IndexPath, printParams)
		}()
		wg.Wait()
		if viewErr != nil {
			return nil, nil, fmt.Errorf("fetch competition %d: %w", id, viewErr)
		}
		if printErr != nil {
			return nil, nil, fmt.Errorf("fetch competition %d print view: %w", id, printErr)
		}
	}

	detail, err := c.parseDetail(markup, id)
	if err != nil {
		return nil, nil, fmt.Errorf("parse competition %d: %w", id, err)
	}
	if opts.WithCreatedAt {
		createdAt, err := c.parseCreatedAt(printMarkup)
		if err != nil {
			return nil, nil, fmt.Errorf("parse competition %d print view: %w", id, err)
		}
		detail.CreatedAt = &createdAt
	}

	if !opts.WithFiles {
		return detail, nil, nil
	}
	files, err := c.fetchFiles(ctx, c.attachmentURLs(detail.ContentBlocks))
	if err != nil {
		return nil, nil, fmt.Errorf("fetch competition %d files: %w", id, err)
	}
	c.logger.Debug("Fetched competition files", zap.Int("id", id), zap.Int("files", len(files)))
	return detail, files, nil
}

// parseDetail разбирает страницу соревнования
func (e *extractor) parseDetail(markup string, id int) (*CompetitionDetail, error) {
	doc := parseFragment(markup)
	table := doc.Find(detailTableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: competition table not found", ErrUnexpectedLayout)
	}
	rows := table.ChildrenFiltered("tr")

	summary, err := e.parseDetailSummary(rows, id)
	if err != nil {
		return nil, err
	}

	var blocks []ContentBlock
	// в старых статьях ячейка с содержимым смещена вниз
	for i := detailContentRow; i < rows.Length(); i++ {
		cell, err := rows.Eq(i).Find("td").First().Html()
		if err != nil {
			return nil, fmt.Errorf("render content row %d: %w", i, err)
		}
		if blocks, err = e.assembleContent(cell); err != nil {
			return nil, err
		}
		if len(blocks) > 0 {
			break
		}
	}

	return &CompetitionDetail{
		CompetitionSummary: summary,
		Author:             parseAuthor(rows),
		ContentBlocks:      blocks,
	}, nil
}

// parseCreatedAt дата публикации из шапки страницы для печати: "Автор | 02.01.2006 15:04"
func (e *extractor) parseCreatedAt(markup string) (time.Time, error) {
	header := parseFragment(markup).Find(printHeaderSelector).First()
	if header.Length() == 0 {
		return time.Time{}, fmt.Errorf("%w: print view header not found", ErrUnexpectedLayout)
	}
	_, value, ok := strings.Cut(strings.TrimSpace(header.Text()), " | ")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: print view header %q", ErrUnexpectedLayout, header.Text())
	}
	createdAt, err := time.ParseInLocation(createdAtLayout, strings.TrimSpace(value), e.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrUnexpectedLayout, err)
	}
	return createdAt, nil
}
