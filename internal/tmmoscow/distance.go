package tmmoscow

import (
	"fmt"
	"strconv"
	"strings"
)

// DistanceCategory тип дистанций, по которому сайт группирует новости
type DistanceCategory int

// Категории дистанций. Порядок совпадает с меню сайта.
const (
	Indoors DistanceCategory = iota + 1
	Walking
	Ski
	Mountain
	Speleo
	CombinedSRW
	Aquatic
	Bicycle
	AutoMoto
	Equestrian
	Sailing
	NordicWalking
)

type categoryInfo struct {
	tag   string
	id    int
	title string
}

var categoryTable = map[DistanceCategory]categoryInfo{
	Indoors:       {tag: "indoors", id: 1, title: "В закрытых помещениях"},
	Walking:       {tag: "walking", id: 2, title: "Пешеходные"},
	Ski:           {tag: "ski", id: 3, title: "Лыжные"},
	Mountain:      {tag: "mountain", id: 4, title: "Горные"},
	Speleo:        {tag: "speleo", id: 5, title: "Спелео"},
	CombinedSRW:   {tag: "combined", id: 6, title: "Комбинированные (ПСР)"},
	Aquatic:       {tag: "aquatic", id: 10, title: "Водные"},
	Bicycle:       {tag: "bicycle", id: 11, title: "Велосипедные"},
	AutoMoto:      {tag: "auto_moto", id: 12, title: "Авто-мото"},
	Equestrian:    {tag: "equestrian", id: 13, title: "Конные"},
	Sailing:       {tag: "sailing", id: 14, title: "Парусные"},
	NordicWalking: {tag: "nordic_walking", id: 15, title: "Северная ходьба"},
}

// Таблицы заполняются один раз при старте и дальше только читаются.
var (
	categoriesOrdered []DistanceCategory
	categoryByID      = make(map[int]DistanceCategory, len(categoryTable))
	categoryByTag     = make(map[string]DistanceCategory, len(categoryTable))
)

func init() {
	for c := Indoors; c <= NordicWalking; c++ {
		info, ok := categoryTable[c]
		if !ok {
			panic(fmt.Sprintf("tmmoscow: distance category %d has no table entry", int(c)))
		}
		if _, dup := categoryByID[info.id]; dup {
			panic(fmt.Sprintf("tmmoscow: duplicate site category id %d", info.id))
		}
		categoriesOrdered = append(categoriesOrdered, c)
		categoryByID[info.id] = c
		categoryByTag[info.tag] = c
	}
}

// Categories возвращает все категории в порядке меню сайта
func Categories() []DistanceCategory {
	out := make([]DistanceCategory, len(categoriesOrdered))
	copy(out, categoriesOrdered)
	return out
}

// CategoryByID возвращает категорию по идентификатору раздела на сайте
func CategoryByID(id int) (DistanceCategory, bool) {
	c, ok := categoryByID[id]
	return c, ok
}

// ParseDistanceCategory разбирает тег категории ("walking") или её числовой id ("2")
func ParseDistanceCategory(s string) (DistanceCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := categoryByTag[s]; ok {
		return c, nil
	}
	if id, err := strconv.Atoi(s); err == nil {
		if c, ok := categoryByID[id]; ok {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Valid сообщает, входит ли значение в перечисление
func (c DistanceCategory) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// ID идентификатор раздела на сайте
func (c DistanceCategory) ID() int {
	return categoryTable[c].id
}

// Title отображаемое название категории
func (c DistanceCategory) Title() string {
	return categoryTable[c].title
}

// String возвращает тег категории
func (c DistanceCategory) String() string {
	if info, ok := categoryTable[c]; ok {
		return info.tag
	}
	return "DistanceCategory(" + strconv.Itoa(int(c)) + ")"
}

// URL ссылка на список новостей категории
func (c DistanceCategory) URL() string {
	return IndexURL + "?go=News&in=cat&id=" + strconv.Itoa(c.ID())
}
