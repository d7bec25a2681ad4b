package tmmoscow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	detailKey = pageKey(IndexPath, url.Values{"go": {"News"}, "in": {"view"}, "id": {"77"}})
	printKey  = pageKey(IndexPath, url.Values{"go": {"News"}, "file": {"print"}, "id": {"77"}})
)

func TestNewClient_Options(t *testing.T) {
	_, err := NewClient(newFakeFetcher(), nil, WithBaseURL("/relative"))
	assert.Error(t, err)

	_, err = NewClient(newFakeFetcher(), nil, WithLocation(nil))
	assert.Error(t, err)

	client := newTestClient(t, newFakeFetcher(), WithBaseURL("https://mirror.example.org"), WithRawTitles())
	assert.Equal(t, "mirror.example.org", client.baseURL.Host)
	assert.False(t, client.normalizeTitles)
	assert.Equal(t, moscowTime, client.location)
}

func TestClient_ListRecent(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages["/index.php?go=News&id=2&in=cat&page=0"] = listingPage(
		listingRows(123, "Кубок Москвы. Дистанции пешеходные.", walkingMetadata, "Прочитано: 345"),
	)
	fetcher.pages["/index.php?go=News&id=2&in=cat&page=7"] = "<html><body>пусто</body></html>"
	client := newTestClient(t, fetcher)

	summaries, err := client.ListRecent(context.Background(), Walking, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Кубок Москвы", summaries[0].Title)

	// за последней страницей пустой список, а не ошибка
	summaries, err = client.ListRecent(context.Background(), Walking, 7)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestClient_ListRecent_Errors(t *testing.T) {
	fetcher := newFakeFetcher()
	client := newTestClient(t, fetcher)

	_, err := client.ListRecent(context.Background(), DistanceCategory(0), 0)
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Empty(t, fetcher.Calls())

	_, err = client.ListRecent(context.Background(), Ski, 0)
	assert.ErrorIs(t, err, errNotFound)
}

func TestClient_GetDetail(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[detailKey] = detailPage(Walking.ID(), detailContent)
	client := newTestClient(t, fetcher)

	detail, files, err := client.GetDetail(context.Background(), 77, DetailOptions{})
	require.NoError(t, err)
	assert.Nil(t, files)
	assert.Equal(t, []string{detailKey}, fetcher.Calls())

	assert.Equal(t, 77, detail.ID)
	assert.Equal(t, "Кубок Москвы", detail.Title)
	require.NotNil(t, detail.Views)
	assert.Equal(t, 345, *detail.Views)
	require.NotNil(t, detail.Location)
	assert.Equal(t, "Москва, парк Сокольники", *detail.Location)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "Иванов", *detail.Author)
	assert.Nil(t, detail.CreatedAt)
	require.Len(t, detail.ContentBlocks, 2)
	assert.Equal(t, "ДОКУМЕНТЫ", detail.ContentBlocks[1].Title)
}

func TestClient_GetDetail_CreatedAtAndFiles(t *testing.T) {
	polozhenie := []byte("%PDF-1.4 положение")
	fetcher := newFakeFetcher()
	fetcher.pages[detailKey] = detailPage(Walking.ID(), detailContent)
	fetcher.pages[printKey] = printPage
	fetcher.files["http://www.tmmoscow.ru/files/polozhenie.pdf"] = polozhenie
	client := newTestClient(t, fetcher)

	detail, files, err := client.GetDetail(context.Background(), 77, DetailOptions{WithCreatedAt: true, WithFiles: true})
	require.NoError(t, err)

	require.NotNil(t, detail.CreatedAt)
	assert.True(t, detail.CreatedAt.Equal(time.Date(2023, time.September, 14, 18, 30, 0, 0, moscowTime)))

	// повторная ссылка, чужой хост и не-pdf отбрасываются
	require.Len(t, files, 2)
	sum := sha256.Sum256(polozhenie)
	assert.Equal(t, File{
		Filename:   "polozhenie.pdf",
		Content:    polozhenie,
		URL:        "http://www.tmmoscow.ru/files/polozhenie.pdf",
		SHA256Hash: hex.EncodeToString(sum[:]),
	}, files[0])
	assert.Equal(t, File{
		Filename: "results.pdf",
		URL:      "http://www.tmmoscow.ru/files/results.pdf",
	}, files[1])
}

func TestClient_GetDetail_FileErrorIsSoft(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[detailKey] = detailPage(Walking.ID(), detailContent)
	fetcher.fileErrs["http://www.tmmoscow.ru/files/results.pdf"] = errors.New("connection reset")
	client := newTestClient(t, fetcher)

	_, files, err := client.GetDetail(context.Background(), 77, DetailOptions{WithFiles: true})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Nil(t, files[1].Content)
	assert.Empty(t, files[1].SHA256Hash)
}

func TestClient_GetDetail_LegacyLayout(t *testing.T) {
	// содержимое в старых статьях лежит ниже пятой строки
	legacy := sitePage(7, `<tr><td><font>Марш. Дистанции пешеходные</font> <a href="index.php?go=News&amp;in=cat&amp;id=2">Пешеходные</a></td></tr>
<tr><td></td></tr>
<tr><td></td></tr>
<tr><td>Пешеходные<br>Обновлено: 01.01.2010<br></td></tr>
<tr><td>Автор: Петров</td></tr>
<tr><td></td></tr>
<tr><td>- Старт в 10:00</td></tr>`)
	fetcher := newFakeFetcher()
	fetcher.pages[detailKey] = legacy
	client := newTestClient(t, fetcher)

	detail, _, err := client.GetDetail(context.Background(), 77, DetailOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Марш", detail.Title)
	require.NotNil(t, detail.Author)
	assert.Equal(t, "Петров", *detail.Author)
	require.Len(t, detail.ContentBlocks, 1)
	assert.Equal(t, []ContentItem{ContentLine{Markup: "Старт в 10:00"}}, detail.ContentBlocks[0].Lines)
}

func TestClient_GetDetail_Errors(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		fetcher := newFakeFetcher()
		fetcher.pages[detailKey] = "<html><body><p>Новость удалена</p></body></html>"
		_, _, err := newTestClient(t, fetcher).GetDetail(context.Background(), 77, DetailOptions{})
		assert.ErrorIs(t, err, ErrUnexpectedLayout)
	})

	t.Run("unknown category", func(t *testing.T) {
		fetcher := newFakeFetcher()
		fetcher.pages[detailKey] = detailPage(99, detailContent)
		_, _, err := newTestClient(t, fetcher).GetDetail(context.Background(), 77, DetailOptions{})
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("print view failed", func(t *testing.T) {
		fetcher := newFakeFetcher()
		fetcher.pages[detailKey] = detailPage(Walking.ID(), detailContent)
		_, _, err := newTestClient(t, fetcher).GetDetail(context.Background(), 77, DetailOptions{WithCreatedAt: true})
		assert.ErrorIs(t, err, errNotFound)
	})

	t.Run("broken print header", func(t *testing.T) {
		fetcher := newFakeFetcher()
		fetcher.pages[detailKey] = detailPage(Walking.ID(), detailContent)
		fetcher.pages[printKey] = "<html><body><div><b>Иванов</b></div></body></html>"
		_, _, err := newTestClient(t, fetcher).GetDetail(context.Background(), 77, DetailOptions{WithCreatedAt: true})
		assert.ErrorIs(t, err, ErrUnexpectedLayout)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fetcher := newFakeFetcher()
		fetcher.pages[detailKey] = detailPage(Walking.ID(), detailContent)
		_, _, err := newTestClient(t, fetcher).GetDetail(ctx, 77, DetailOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
