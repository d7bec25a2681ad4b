package tmmoscow

import (
	"fmt"
	"regexp"
	"strings"
)

// vehicleSuffixes суффиксы для дистанций на средствах передвижения:
// краткая форма в скобках, форма с уточняющим словом и базовая фраза.
// Базовая фраза последняя, иначе она срезала бы только начало длинных форм.
func vehicleSuffixes(word, inParentheses string) []string {
	return []string{
		`Дистанции\s*-?\s*на\s*средствах\s*передвижения\s*\((?:` + inParentheses + `)\)`,
		`Дистанции\s*на\s*средствах\s*передвижения.\s*` + word,
		`Дистанции\s*на\s*средствах\s*передвижения`,
	}
}

// titleSuffixes служебные хвосты заголовков по категориям. Порядок важен:
// при совпадении в одной позиции выигрывает более ранний вариант.
var titleSuffixes = map[DistanceCategory][]string{
	Indoors: {
		`Дистанции\s*пешеходные\s*в\s*закрытых\s*помещениях`,
		`Дистанции\s*пешеходные`,
	},
	Walking: {
		`Дистанции\s*пешеходные`,
		`Дистанции\s*-\s*пешеходные`,
	},
	Ski:      {`Дистанции\s*лыжные`},
	Mountain: {`Дистанции\s*горные`},
	Speleo:   {`Дистанции\s*спелео`},
	Aquatic:  {`Дистанции\s*водные`},
	CombinedSRW: {
		`Дистанции\s*комбинированные`,
		`Дистанция\s*-\s*комбинированная`,
	},
	Bicycle: append(
		vehicleSuffixes(`Вело(?:сипед)?`, `вело`),
		`Дистанции\s*велосипедные`,
	),
	AutoMoto:   vehicleSuffixes(`Авто`, `авто`),
	Equestrian: vehicleSuffixes(`Конные\s*(?:дистанции)?`, `кони|конные`),
	Sailing: {
		`Дистанции\s*парусные`,
		`Дистанция\s*-?\s*парусная`,
	},
	NordicWalking: {`Северная\s*ходьба`},
}

var titlePatterns = compileTitlePatterns()

// compileTitlePatterns собирает регулярные выражения при старте и падает,
// если какая-то категория осталась без таблицы суффиксов
func compileTitlePatterns() map[DistanceCategory]*regexp.Regexp {
	patterns := make(map[DistanceCategory]*regexp.Regexp, len(categoryTable))
	for c := range categoryTable {
		suffixes, ok := titleSuffixes[c]
		if !ok || len(suffixes) == 0 {
			panic(fmt.Sprintf("tmmoscow: no title suffixes for category %d", int(c)))
		}
		alternatives := make([]string, len(suffixes))
		for i, s := range suffixes {
			alternatives[i] = s + `\.?`
		}
		patterns[c] = regexp.MustCompile(`(?i)\s*(?:` + strings.Join(alternatives, "|") + `)`)
	}
	return patterns
}

// NormalizeTitle убирает из заголовка все служебные хвосты категории
// ("... Дистанции пешеходные.") и одну завершающую точку
func NormalizeTitle(title string, category DistanceCategory) (string, error) {
	pattern, ok := titlePatterns[category]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return trimTitle(pattern.ReplaceAllString(title, "")), nil
}

// trimTitle единственная обработка заголовка при отключённой нормализации
func trimTitle(title string) string {
	return strings.TrimSuffix(strings.TrimSpace(title), ".")
}
