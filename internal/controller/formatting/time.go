package formatting

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Названия дней недели, 0 = воскресенье
var weekdayNames = [7]string{
	"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота",
}

var weekdayShortNames = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// WeekdayName возвращает название дня недели
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return "?"
	}
	return weekdayNames[weekday]
}

// WeekdayShortName возвращает короткое название дня недели
func WeekdayShortName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return "?"
	}
	return weekdayShortNames[weekday]
}

// ParseWeekday разбирает короткое или полное название дня недели
func ParseWeekday(s string) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i := 0; i < 7; i++ {
		if needle == strings.ToLower(weekdayShortNames[i]) || needle == strings.ToLower(weekdayNames[i]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// FormatDate форматирует дату как "02.01.2006"
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatTime форматирует время как "15:04"
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatDateTime форматирует дату и время с днём недели
func FormatDateTime(t time.Time) string {
	return fmt.Sprintf("%s %s %s", WeekdayShortName(int(t.Weekday())), FormatDate(t), FormatTime(t))
}

// ParseTimeOfDay разбирает строку "HH:MM"
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse hour: %w", err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse minute: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}

// ParseDate разбирает дату "DD.MM" или "DD.MM.YYYY" в местной зоне.
// Год по умолчанию берётся из now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("02.01.2006", s, now.Location()); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("02.01", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("expected DD.MM or DD.MM.YYYY, got %q", s)
	}
	return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), nil
}

// ParseDateTime разбирает "DD.MM HH:MM" или "DD.MM.YYYY HH:MM"
func ParseDateTime(s string, now time.Time) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("expected date and time, got %q", s)
	}
	date, err := ParseDate(fields[0], now)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseTimeOfDay(fields[1])
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, now.Location()), nil
}
