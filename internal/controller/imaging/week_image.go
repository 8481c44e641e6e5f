package imaging

import (
	"bytes"
	"image/color"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Entry - одно занятие на сетке недели
type Entry struct {
	Start    time.Time
	Duration time.Duration
	Label    string
	Status   model.SessionStatus
}

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 2
	hourPaddingBot   = 2
	defaultMinHour   = 9
	defaultMaxHour   = 20
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	entryPendingColor     = color.RGBA{133, 193, 85, 220}
	entryCompletedColor   = color.RGBA{120, 160, 220, 230}
	entryCancelledColor   = color.RGBA{158, 158, 158, 200}
	entryPostponedColor   = color.RGBA{255, 182, 193, 255}
	entryRescheduledColor = color.RGBA{255, 214, 120, 230}
	entryTextColor        = color.RGBA{20, 24, 28, 230}
	entryShadowColor      = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// RenderWeek строит PNG-картинку недели с занятиями.
// weekStart - воскресенье, начало отображаемой недели.
func RenderWeek(weekStart, now time.Time, entries []Entry) ([]byte, error) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	today := normalizeToDay(now)
	highlightToday := !today.Before(weekStart) && !today.After(weekEnd)

	entriesByDay := groupEntriesByDay(entries)
	hours := calculateHourRange(entries)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, weekStart, weekEnd)
	drawHourLabels(dc, hours, cellHeight)
	drawDays(dc, weekStart, today, highlightToday, entriesByDay, hours, dayWidth, dayHeight, cellHeight)
	drawCurrentTimeLine(dc, highlightToday, now, hours, cellHeight, dayWidth)
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// groupEntriesByDay группирует занятия по дням
func groupEntriesByDay(entries []Entry) map[string][]Entry {
	byDay := make(map[string][]Entry)
	for _, entry := range entries {
		dateKey := entry.Start.Format("2006-01-02")
		byDay[dateKey] = append(byDay[dateKey], entry)
	}
	return byDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(entries []Entry) hourRange {
	minHour := 24
	maxHour := 0

	for _, entry := range entries {
		startH := entry.Start.Hour()
		end := entry.Start.Add(entry.Duration)
		endH := end.Hour()
		if end.Minute() > 0 {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, weekStart, weekEnd time.Time) {
	var title string
	if weekStart.Month() == weekEnd.Month() {
		title = monthNameRussian(weekStart.Month())
	} else {
		title = monthNameRussian(weekStart.Month()) + " - " + monthNameRussian(weekEnd.Month())
	}

	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2, float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(actualHour), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDays рисует все дни недели с занятиями
func drawDays(dc *gg.Context, weekStart, today time.Time, highlightToday bool,
	entriesByDay map[string][]Entry, hours hourRange, dayWidth, dayHeight int, cellHeight float64) {

	currentDate := weekStart
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		isToday := highlightToday && currentDate.Equal(today)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, currentDate, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		dateKey := currentDate.Format("2006-01-02")
		for _, entry := range entriesByDay[dateKey] {
			drawEntry(dc, entry, x, y, dayWidth, hours, cellHeight)
		}

		currentDate = currentDate.AddDate(0, 0, 1)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if isToday {
		dc.SetColor(todayBgColor)
	} else if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayShortRussian(date.Weekday()), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawEntry рисует одно занятие
func drawEntry(dc *gg.Context, entry Entry, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(entry.Start.Hour()) + float64(entry.Start.Minute())/60.0
	end := entry.Start.Add(entry.Duration)
	endHour := float64(end.Hour()) + float64(end.Minute())/60.0

	entryY := y + (startHour-float64(hours.start))*cellHeight
	entryHeight := (endHour - startHour) * cellHeight
	if entryHeight < minSlotHeight {
		entryHeight = minSlotHeight
	}

	fillColor := entryColor(entry.Status)
	entryW := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(entryShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, entryY+2+shadowOffset, entryW, entryHeight-4, slotBorderRadius)
	dc.Fill()

	// Основной блок
	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), entryY+2, entryW, entryHeight-4, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), entryY+2, entryW, entryHeight-4, slotBorderRadius)
	dc.Stroke()

	// Время и имя ученика
	dc.SetColor(entryTextColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := entryY + 8 + 10
	dc.DrawStringAnchored(entry.Start.Format("15:04"), txtX, txtY, 0, 0)

	if entry.Label != "" && entryHeight > 25 {
		label := entry.Label
		maxLen := 20
		if len([]rune(label)) > maxLen {
			label = string([]rune(label)[:maxLen-3]) + "..."
		}
		dc.DrawStringAnchored(label, txtX, txtY+16, 0, 0)
	}
}

// entryColor возвращает цвет занятия по его статусу
func entryColor(status model.SessionStatus) color.RGBA {
	switch status {
	case model.SessionStatusPending:
		return entryPendingColor
	case model.SessionStatusCompleted:
		return entryCompletedColor
	case model.SessionStatusCancelled:
		return entryCancelledColor
	case model.SessionStatusPostponed:
		return entryPostponedColor
	case model.SessionStatusRescheduled:
		return entryRescheduledColor
	default:
		return entryPendingColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, highlightToday bool, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	if !highlightToday {
		return
	}

	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	currentTimeY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), currentTimeY, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), currentTimeY)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 140.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Запланировано", entryPendingColor},
		{"Проведено", entryCompletedColor},
		{"Отменено", entryCancelledColor},
		{"Отложено", entryPostponedColor},
		{"Перенесено", entryRescheduledColor},
	}

	boxW := 20.0
	boxH := 14.0
	liX := legendX
	liY := legendY + 22

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}

// короткие дни недели
func weekdayShortRussian(weekday time.Weekday) string {
	weekdays := [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	return weekdays[int(weekday)]
}

// названия месяцев на русском
func monthNameRussian(month time.Month) string {
	months := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return months[month]
}
