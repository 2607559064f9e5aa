package collector

import (
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
)

// Fetcher 抽象每一个餐厅数据源，返回当天的菜单。
// 图片/OCR 类数据源在预期内的失败都会返回占位菜单；
// 纯 HTML 类数据源在页面结构缺失时返回 error，由 processor 兜底。
type Fetcher interface {
	Name() string
	Fetch() (menu.Menu, error)
}

// clock 返回注入的时钟，未注入时使用 time.Now
func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

// today 返回当天的捷克语星期名与 "D.M." 日期，周末星期名为空
func today(now func() time.Time) (time.Time, string, string) {
	t := clock(now)
	day, _ := menu.DayName(t)
	return t, day, menu.ShortDate(t)
}
