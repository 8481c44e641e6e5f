package formatting

// PluralizeSessions возвращает правильное склонение слова "занятие"
func PluralizeSessions(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "занятие"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "занятия"
	}
	return "занятий"
}

// PluralizeStudents возвращает правильное склонение слова "ученик"
func PluralizeStudents(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "ученик"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "ученика"
	}
	return "учеников"
}

// PluralizeMinutes возвращает правильное склонение слова "минута"
func PluralizeMinutes(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "минуту"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "минуты"
	}
	return "минут"
}
