package tmmoscow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"iter"
	"net/url"
	"path"
	"sync"

	"go.uber.org/zap"
)

// attachmentExt на сайте прикладываются только pdf
const attachmentExt = ".pdf"

// fileLinks перебирает href всех ссылок в строках объявления. Подзаголовки пропускаются.
func fileLinks(blocks []ContentBlock) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, block := range blocks {
			for _, item := range block.Lines {
				line, ok := item.(ContentLine)
				if !ok {
					continue
				}
				for _, href := range line.Links() {
					if !yield(href) {
						return
					}
				}
			}
		}
	}
}

// attachmentURLs pdf-файлы с сайта без повторов, в порядке первого упоминания
func (e *extractor) attachmentURLs(blocks []ContentBlock) []*url.URL {
	seen := make(map[string]struct{})
	var urls []*url.URL
	for href := range fileLinks(blocks) {
		u, err := url.Parse(href)
		if err != nil || u.Host != e.baseURL.Host || path.Ext(u.Path) != attachmentExt {
			continue
		}
		key := u.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// fetchFiles скачивает файлы параллельно и ждёт весь пакет.
// Неудачная загрузка даёт File без содержимого, а не ошибку.
func (c *Client) fetchFiles(ctx context.Context, urls []*url.URL) ([]File, error) {
	contents := make([][]byte, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, rawURL string) {
			defer wg.Done()
			content, err := c.fetcher.FetchBytes(ctx, rawURL)
			if err != nil {
				c.logger.Warn("Failed to fetch attachment", zap.String("url", rawURL), zap.Error(err))
				return
			}
			if content == nil {
				c.logger.Debug("Attachment is not available", zap.String("url", rawURL))
			}
			contents[i] = content
		}(i, u.String())
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := make([]File, len(urls))
	for i, u := range urls {
		files[i] = newFile(u, contents[i])
	}
	return files, nil
}

func newFile(u *url.URL, content []byte) File {
	file := File{
		Filename: path.Base(u.Path),
		Content:  content,
		URL:      u.String(),
	}
	if content != nil {
		sum := sha256.Sum256(content)
		file.SHA256Hash = hex.EncodeToString(sum[:])
	}
	return file
}
