package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/imaging"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
)

func main() {
	// Тестовая неделя начинается с воскресенья
	now := time.Now()
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart = weekStart.AddDate(0, 0, -int(weekStart.Weekday()))

	hour := time.Hour

	entries := []imaging.Entry{
		// Понедельник
		{Start: weekStart.AddDate(0, 0, 1).Add(16 * hour), Duration: hour, Label: "Маша", Status: model.SessionStatusCompleted},
		{Start: weekStart.AddDate(0, 0, 1).Add(18 * hour), Duration: hour, Label: "Петя", Status: model.SessionStatusPending},
		// Вторник
		{Start: weekStart.AddDate(0, 0, 2).Add(15 * hour), Duration: hour, Label: "Аня", Status: model.SessionStatusCancelled},
		// Среда
		{Start: weekStart.AddDate(0, 0, 3).Add(17 * hour), Duration: hour, Label: "Маша", Status: model.SessionStatusPostponed},
		{Start: weekStart.AddDate(0, 0, 3).Add(19 * hour), Duration: hour, Label: "Коля", Status: model.SessionStatusPending},
		// Пятница
		{Start: weekStart.AddDate(0, 0, 5).Add(16 * hour), Duration: hour, Label: "Петя", Status: model.SessionStatusRescheduled},
	}

	imageData, err := imaging.RenderWeek(weekStart, now, entries)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "week.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s\n", filename)
	fmt.Printf("📅 Неделя: %s - %s\n", weekStart.Format("02.01.2006"), weekStart.AddDate(0, 0, 6).Format("02.01.2006"))
	fmt.Printf("📊 Занятий: %d\n", len(entries))
}
