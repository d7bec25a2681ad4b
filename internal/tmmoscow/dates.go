package tmmoscow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// eventDatesExpr день, необязательный месяц, необязательный диапазон,
// обязательный год и хвост "г." / "года"
const eventDatesExpr = `(?P<start_day>\d{1,2})\s*` +
	`(?P<start_month>[а-яА-Я]+)?\s*` +
	`(?:[-–]\s*(?P<end_day>\d{1,2})?\s*(?P<end_month>[а-яА-Я]+)?)?\s*` +
	`(?P<year>\d{4})\s*` +
	`(?:г?)(?:\.?)(?:од)?(?:а?)`

var eventDatesPattern = regexp.MustCompile(`(?i)` + eventDatesExpr)

var monthNumbers = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

// ParseDateRange ищет в тексте диапазон дат вида "30 сентября - 2 октября 2023 г."
// и возвращает даты начала и конца (полночь UTC). Если диапазона нет,
// возвращает nil, nil без ошибки. Найденный диапазон без названия месяца
// или с неизвестным месяцем считается ошибкой формата.
func ParseDateRange(text string) (*time.Time, *time.Time, error) {
	m := eventDatesPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil, nil
	}
	group := func(name string) string {
		return m[eventDatesPattern.SubexpIndex(name)]
	}

	startDay, _ := strconv.Atoi(group("start_day"))
	endDay := startDay
	if s := group("end_day"); s != "" {
		endDay, _ = strconv.Atoi(s)
	}
	year, _ := strconv.Atoi(group("year"))

	startMonthName, endMonthName := group("start_month"), group("end_month")
	if startMonthName == "" {
		startMonthName = endMonthName
	}
	if endMonthName == "" {
		endMonthName = startMonthName
	}
	startMonth, err := lookupMonth(startMonthName, m[0])
	if err != nil {
		return nil, nil, err
	}
	endMonth, err := lookupMonth(endMonthName, m[0])
	if err != nil {
		return nil, nil, err
	}

	begins, err := calendarDate(year, startMonth, startDay)
	if err != nil {
		return nil, nil, err
	}
	ends, err := calendarDate(year, endMonth, endDay)
	if err != nil {
		return nil, nil, err
	}
	return &begins, &ends, nil
}

func lookupMonth(name, matched string) (time.Month, error) {
	month, ok := monthNumbers[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q in %q", ErrUnknownMonth, name, matched)
	}
	return month, nil
}

// calendarDate в отличие от time.Date не переносит 31 февраля в март
func calendarDate(year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: invalid date %d.%02d.%d", ErrUnexpectedLayout, day, int(month), year)
	}
	return t, nil
}

// updatedAtLayouts допустимые форматы пометки об обновлении; берётся первый подошедший
var updatedAtLayouts = []string{
	"обновлено 02.01.2006",
	"обновлено: 02.01.2006",
}

// parseUpdatedAt разбирает "Обновлено: 12.03.2023"; nil, если ни один формат не подошёл
func parseUpdatedAt(text string, loc *time.Location) *time.Time {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, layout := range updatedAtLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return &t
		}
	}
	return nil
}

// createdAtLayout формат даты публикации на странице для печати
const createdAtLayout = "02.01.2006 15:04"
