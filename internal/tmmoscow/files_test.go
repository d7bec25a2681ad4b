package tmmoscow

import (
	"net/url"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileLinks_SkipsSubtitles(t *testing.T) {
	blocks := []ContentBlock{
		{Lines: []ContentItem{
			ContentSubtitle{Markup: `<b><a href="http://www.tmmoscow.ru/s.pdf">s</a></b>`},
			ContentLine{Markup: `<a href="http://www.tmmoscow.ru/a.pdf">a</a> и <a href="http://www.tmmoscow.ru/b.pdf">b</a>`},
		}},
		{Lines: []ContentItem{ContentLine{Markup: `<a>без ссылки</a>`}}},
	}

	links := slices.Collect(fileLinks(blocks))
	assert.Equal(t, []string{"http://www.tmmoscow.ru/a.pdf", "http://www.tmmoscow.ru/b.pdf"}, links)

	// досрочная остановка перебора
	for href := range fileLinks(blocks) {
		assert.Equal(t, "http://www.tmmoscow.ru/a.pdf", href)
		break
	}
}

func TestAttachmentURLs(t *testing.T) {
	blocks := []ContentBlock{{Lines: []ContentItem{
		ContentLine{Markup: `<a href="http://www.tmmoscow.ru/files/b.pdf">b</a>`},
		ContentLine{Markup: `<a href="http://www.tmmoscow.ru/files/a.PDF">a</a>`},
		ContentLine{Markup: `<a href="http://www.tmmoscow.ru/files/b.pdf">b снова</a>`},
		ContentLine{Markup: `<a href="http://tmmoscow.ru/files/c.pdf">другой хост</a>`},
		ContentLine{Markup: `<a href="http://www.tmmoscow.ru/files/c.pdf">c</a>`},
	}}}

	var got []string
	for _, u := range testExtractor().attachmentURLs(blocks) {
		got = append(got, u.String())
	}
	assert.Equal(t, []string{
		"http://www.tmmoscow.ru/files/b.pdf",
		"http://www.tmmoscow.ru/files/c.pdf",
	}, got)
}

func TestNewFile(t *testing.T) {
	u, _ := url.Parse("http://www.tmmoscow.ru/files/2023/polozhenie.pdf")

	file := newFile(u, []byte("abc"))
	assert.Equal(t, "polozhenie.pdf", file.Filename)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", file.SHA256Hash)

	missing := newFile(u, nil)
	assert.Nil(t, missing.Content)
	assert.Empty(t, missing.SHA256Hash)
}
