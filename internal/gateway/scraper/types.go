// Package scraper транспорт до tmmoscow.ru поверх colly.
package scraper

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultUserAgent сайт отдаёт урезанные страницы неизвестным клиентам
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// Config представляет конфигурацию транспорта
type Config struct {
	BaseURL   string
	UserAgent string
	// MaxConcurrentRequests общий потолок одновременных запросов к сайту
	MaxConcurrentRequests int
	RequestTimeout        time.Duration
	RequestDelay          time.Duration
	MaxBodySize           int
	HTTPClientConfig      HTTPClientConfig
	RetryConfig           RetryConfig
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// ErrBodyTooLarge тело ответа обрезано по MaxBodySize
var ErrBodyTooLarge = errors.New("response body reached size limit")

// StatusError ответ сервера с кодом не 2xx
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Temporary сообщает, имеет ли смысл повторить запрос
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}
