package tmmoscow

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractor() *extractor {
	base, _ := url.Parse(BaseURL)
	return &extractor{baseURL: base, location: moscowTime, normalizeTitles: true}
}

func TestSplitContentLines(t *testing.T) {
	lines := splitContentLines("первая<br>  <br/>\nвторая<BR >третья\n\n<b> </b>")
	assert.Equal(t, []string{"первая", "вторая", "третья"}, lines)
}

func TestAssembleContent(t *testing.T) {
	blocks, err := testExtractor().assembleContent(detailContent)
	require.NoError(t, err)
	// по одному разделу на каждый заголовок
	require.Len(t, blocks, 2)

	first := blocks[0]
	assert.Equal(t, "МАРШ ВЫХОДНОГО ДНЯ", first.Title)
	require.Len(t, first.Lines, 3)

	assert.Equal(t, ContentLine{Markup: "Дата: 5-7 октября 2023"}, first.Lines[0])
	assert.Equal(t, ContentSubtitle{Markup: "<b>Контакты</b>"}, first.Lines[1])

	phone, ok := first.Lines[2].(ContentLine)
	require.True(t, ok)
	require.NotNil(t, phone.Comment)
	assert.Equal(t, "звонить вечером", *phone.Comment)
	assert.NotContains(t, phone.Markup, "font")
	assert.Contains(t, phone.Markup, "+7 900 000-00-00\nпродолжение телефона")

	second := blocks[1]
	assert.Equal(t, "ДОКУМЕНТЫ", second.Title)
	require.Len(t, second.Lines, 5)
	assert.Equal(t,
		`<a href="http://www.tmmoscow.ru/files/polozhenie.pdf">Положение</a>`,
		second.Lines[0].HTML())
}

func TestAssembleContent_LinesBeforeFirstTitle(t *testing.T) {
	markup := `- Вступление<br>` +
		`<b><font>ИТОГИ</font></b><br>` +
		`- Победитель`
	blocks, err := testExtractor().assembleContent(markup)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Empty(t, blocks[0].Title)
	assert.Equal(t, []ContentItem{ContentLine{Markup: "Вступление"}}, blocks[0].Lines)
	assert.Equal(t, "ИТОГИ", blocks[1].Title)
	assert.Equal(t, []ContentItem{ContentLine{Markup: "Победитель"}}, blocks[1].Lines)
}

func TestAssembleContent_NbspBeforeDash(t *testing.T) {
	blocks, err := testExtractor().assembleContent(`<b><font>ДОКУМЕНТЫ</font></b><br>&nbsp;- Положение`)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []ContentItem{ContentLine{Markup: "Положение"}}, blocks[0].Lines)
}

func TestAssembleContent_ConsecutiveTitles(t *testing.T) {
	markup := `<b><font>ПЕРВЫЙ</font></b><br>` +
		`<b><font>ВТОРОЙ</font></b><br>` +
		`- Строка`
	blocks, err := testExtractor().assembleContent(markup)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, "ПЕРВЫЙ", blocks[0].Title)
	assert.Empty(t, blocks[0].Lines)
	assert.Equal(t, "ВТОРОЙ", blocks[1].Title)
	assert.Equal(t, []ContentItem{ContentLine{Markup: "Строка"}}, blocks[1].Lines)
}

func TestAssembleContent_TitleOnly(t *testing.T) {
	blocks, err := testExtractor().assembleContent(`<b><font>ПРОГРАММА</font></b><br>текст без дефиса`)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "ПРОГРАММА", blocks[0].Title)
	assert.Empty(t, blocks[0].Lines)
}

func TestAssembleContent_Empty(t *testing.T) {
	blocks, err := testExtractor().assembleContent("<br>\n&nbsp;<br>")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestSanitizeAnchors(t *testing.T) {
	got, err := testExtractor().sanitizeAnchors(`- <a class="x" href="files/a.pdf" onclick="evil()">A</a> и <a name="top">B</a>`)
	require.NoError(t, err)
	assert.Equal(t, `- <a href="http://www.tmmoscow.ru/files/a.pdf">A</a> и <a>B</a>`, got)
}

func TestExtractComment(t *testing.T) {
	body, comment, err := extractComment(`Старт <font color="gray"> </font>в 10:00`)
	require.NoError(t, err)
	assert.Nil(t, comment)
	assert.Equal(t, "Старт в 10:00", body)

	body, comment, err = extractComment("без комментария")
	require.NoError(t, err)
	assert.Nil(t, comment)
	assert.Equal(t, "без комментария", body)
}
