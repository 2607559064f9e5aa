package menu

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 周六、周日为空：多数餐厅周末不提供午餐菜单
var dayNames = [7]string{
	time.Sunday:    "",
	time.Monday:    "pondělí",
	time.Tuesday:   "úterý",
	time.Wednesday: "středa",
	time.Thursday:  "čtvrtek",
	time.Friday:    "pátek",
	time.Saturday:  "",
}

// DayName 返回 t 所在星期的捷克语小写名称，周末返回 ("", false)
func DayName(t time.Time) (string, bool) {
	name := dayNames[t.Weekday()]
	return name, name != ""
}

// CapitalizedDayName 例如 "Úterý"
func CapitalizedDayName(t time.Time) string {
	name, _ := DayName(t)
	// Caser 有状态，不能跨 goroutine 共享
	return cases.Title(language.Czech).String(name)
}

// ShortDate 格式 "D.M."，不补零
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d.%d.", t.Day(), int(t.Month()))
}

// SpacedDate 格式 "D. M."，不补零
func SpacedDate(t time.Time) string {
	return fmt.Sprintf("%d. %d.", t.Day(), int(t.Month()))
}

// TodayHeader 邮件标题，例如 "Úterý 21. 1."
func TodayHeader(t time.Time) string {
	day := CapitalizedDayName(t)
	if day == "" {
		return SpacedDate(t)
	}
	return day + " " + SpacedDate(t)
}
