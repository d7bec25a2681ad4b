package tmmoscow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errNotFound = errors.New("status 404")

// sitePage повторяет вёрстку сайта: нужная таблица лежит в третьей ячейке
// четвёртой таблицы страницы на позиции tablePos
func sitePage(tablePos int, rows string) string {
	return `<html><head><title>tmmoscow</title></head><body>
<div>шапка</div><div>меню</div><div>баннер</div>
<table><tr><td>левая колонка</td><td></td><td>` +
		strings.Repeat("<div></div>", tablePos-1) +
		`<table>` + rows + `</table>` +
		`</td></tr></table></body></html>`
}

func listingPage(rows ...string) string {
	return sitePage(8, strings.Join(rows, "\n"))
}

func listingRows(id int, title, metadata, views string) string {
	return fmt.Sprintf(`<tr><td><a href="index.php?go=News&amp;in=view&amp;id=%d">%s</a></td></tr>
<tr><td>%s</td></tr>
<tr><td>%s</td></tr>
<tr><td></td></tr>
<tr><td></td></tr>`, id, title, metadata, views)
}

const walkingMetadata = `<a href="index.php?go=News&amp;in=cat&amp;id=2"><img src="/images/logo.gif"></a>Пешеходные<br>` +
	`<b>Обновлено: 12.03.2023</b><br>5-7 октября 2023, Москва, парк Сокольники<br>`

const detailContent = `<b><font color="green">МАРШ ВЫХОДНОГО ДНЯ</font></b><br>
<b><font color="green">==================</font></b><br>
- Дата: 5-7 октября 2023<br>
<b>Контакты</b><br>
- Телефон: <font color="gray">звонить вечером</font> +7 900 000-00-00<br>
продолжение телефона<br>
<b><font color="green">ДОКУМЕНТЫ</font></b><br>
- <a href="/files/polozhenie.pdf" target="_blank" style="color:red">Положение</a><br>
- <a href="http://www.tmmoscow.ru/files/polozhenie.pdf">Положение ещё раз</a><br>
- <a href="http://example.com/other.pdf">Чужой файл</a><br>
- <a href="/files/scheme.jpg">Схема</a><br>
- <a href="/files/results.pdf">Результаты</a>`

func detailPage(categoryID int, content string) string {
	rows := []string{
		fmt.Sprintf(`<tr><td><font class="title">Кубок Москвы. Дистанции пешеходные.</font> <a href="index.php?go=News&amp;in=cat&amp;id=%d">Пешеходные</a></td></tr>`, categoryID),
		`<tr><td></td></tr>`,
		`<tr><td>Прочитано: 345</td></tr>`,
		`<tr><td>` + walkingMetadata + `</td></tr>`,
		`<tr><td></td></tr>`,
		`<tr><td>` + content + `</td></tr>`,
		`<tr><td></td></tr>`,
		`<tr><td>Иванов <i>редактор</i></td></tr>`,
	}
	return sitePage(7, strings.Join(rows, "\n"))
}

const printPage = `<html><body><div><b>Иванов | 14.09.2023 18:30</b></div><p>текст</p></body></html>`

// fakeFetcher отдаёт заранее заготовленные страницы и файлы
type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	files    map[string][]byte
	fileErrs map[string]error
	calls    []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:    make(map[string]string),
		files:    make(map[string][]byte),
		fileErrs: make(map[string]error),
	}
}

func pageKey(path string, params url.Values) string {
	return path + "?" + params.Encode()
}

func (f *fakeFetcher) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFetcher) FetchPage(ctx context.Context, path string, params url.Values) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := pageKey(path, params)
	f.record(key)
	page, ok := f.pages[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, errNotFound)
	}
	return page, nil
}

func (f *fakeFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.record(rawURL)
	if err, ok := f.fileErrs[rawURL]; ok {
		return nil, err
	}
	return f.files[rawURL], nil
}

func newTestClient(t *testing.T, fetcher Fetcher, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(fetcher, zap.NewNop(), opts...)
	require.NoError(t, err)
	return client
}
