package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Fetcher получает страницы и файлы сайта. Все запросы проходят через
// один коллектор, поэтому потолок параллельности общий для всех вызовов.
type Fetcher struct {
	config    Config
	baseURL   *url.URL
	logger    *zap.Logger
	collector *colly.Collector
}

// NewFetcher создает новый экземпляр Fetcher
func NewFetcher(config Config, logger *zap.Logger) (*Fetcher, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", config.BaseURL)
	}
	if config.MaxConcurrentRequests <= 0 {
		return nil, fmt.Errorf("max concurrent requests must be positive, got %d", config.MaxConcurrentRequests)
	}

	f := &Fetcher{
		config:  config,
		baseURL: base,
		logger:  logger,
	}
	collector, err := f.newCollector()
	if err != nil {
		return nil, err
	}
	f.collector = collector
	return f, nil
}

// newCollector creates a new Colly collector with configured middleware
func (f *Fetcher) newCollector() (*colly.Collector, error) {
	userAgent := f.config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	options := []colly.CollectorOption{
		colly.UserAgent(userAgent),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	}
	if f.config.MaxBodySize > 0 {
		options = append(options, colly.MaxBodySize(f.config.MaxBodySize))
	}
	collector := colly.NewCollector(options...)

	// Используем оптимизированный транспорт
	collector.WithTransport(NewTransport(f.config.HTTPClientConfig, f.logger))
	if f.config.RequestTimeout > 0 {
		collector.SetRequestTimeout(f.config.RequestTimeout)
	}

	// Клоны коллектора делят бэкенд, так что правило ограничивает все запросы вместе
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: f.config.MaxConcurrentRequests,
		Delay:       f.config.RequestDelay,
	}); err != nil {
		return nil, fmt.Errorf("set limit rule: %w", err)
	}
	return collector, nil
}

type response struct {
	status int
	body   []byte
}

// visit выполняет один GET. Колбэки вешаются на клон, чтобы
// параллельные вызовы не видели ответы друг друга.
func (f *Fetcher) visit(ctx context.Context, rawURL string) (*response, error) {
	collector := f.collector.Clone()

	var resp *response
	var visitErr error

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		f.logger.Debug("Making request", zap.String("url", r.URL.String()))
	})

	collector.OnResponse(func(r *colly.Response) {
		f.logger.Debug("Received response",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Int("size", len(r.Body)))
		resp = &response{status: r.StatusCode, body: r.Body}
	})

	collector.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	if err := collector.Visit(rawURL); err != nil && visitErr == nil {
		visitErr = err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if visitErr != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, visitErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("get %s: no response", rawURL)
	}
	// colly молча обрезает тело по лимиту, обрезанное тело считается неполученным
	if f.config.MaxBodySize > 0 && len(resp.body) >= f.config.MaxBodySize {
		return nil, fmt.Errorf("get %s: %w (%d bytes)", rawURL, ErrBodyTooLarge, f.config.MaxBodySize)
	}
	return resp, nil
}

// FetchPage возвращает декодированную страницу. Ответ не 2xx дает *StatusError.
func (f *Fetcher) FetchPage(ctx context.Context, path string, params url.Values) (string, error) {
	rawURL := f.resolve(path, params)

	var page string
	err := WithRetry(ctx, f.logger, f.config.RetryConfig, func() error {
		resp, err := f.visit(ctx, rawURL)
		if err != nil {
			return err
		}
		if !successful(resp.status) {
			return &StatusError{URL: rawURL, StatusCode: resp.status}
		}
		page, err = decodeBody(resp.body)
		return err
	})
	if err != nil {
		return "", err
	}
	return page, nil
}

// FetchBytes возвращает содержимое файла или nil, если сервер ответил не 2xx
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := f.visit(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if !successful(resp.status) {
		f.logger.Debug("File is not available",
			zap.String("url", rawURL),
			zap.Int("status", resp.status))
		return nil, nil
	}
	return resp.body, nil
}

func (f *Fetcher) resolve(path string, params url.Values) string {
	ref := &url.URL{Path: path}
	if strings.Contains(path, "://") {
		if u, err := url.Parse(path); err == nil {
			ref = u
		}
	}
	u := f.baseURL.ResolveReference(ref)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

func successful(status int) bool {
	return status >= 200 && status < 300
}

// decodeBody сайт отдает windows-1251. Colly перекодирует тело сам, если
// кодировка указана в заголовке, поэтому валидный UTF-8 не трогаем.
func decodeBody(body []byte) (string, error) {
	if utf8.Valid(body) {
		return string(body), nil
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode windows-1251: %w", err)
	}
	return string(decoded), nil
}
