package processor

import (
	"fmt"
	"log"
	"time"

	"github.com/LJTian/LunchHub/internal/collector"
	"github.com/LJTian/LunchHub/internal/menu"
)

// Result 单个数据源的执行结果，Err 非空时 Menu 无意义
type Result struct {
	Menu menu.Menu
	Err  error
}

// Aggregator 依次调用各数据源，单个失败不影响其他数据源
type Aggregator struct {
	// Now 生成错误占位菜单的日期，默认 time.Now
	Now func() time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Run 调用一个数据源，返回的错误和 panic 都收进 Result.Err
func (a *Aggregator) Run(f collector.Fetcher) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	m, err := f.Fetch()
	if err != nil {
		return Result{Err: err}
	}
	return Result{Menu: m}
}

// Collect 按注册顺序串行执行，返回与 fetchers 等长、同序的菜单列表
func (a *Aggregator) Collect(fetchers []collector.Fetcher) []menu.Menu {
	log.Println("start collect menus...")

	out := make([]menu.Menu, 0, len(fetchers))
	failed := 0
	for _, f := range fetchers {
		name := f.Name()
		res := a.Run(f)
		if res.Err != nil {
			failed++
			log.Printf("fetch %s error: %v", name, res.Err)
			out = append(out, a.errorMenu(name))
			continue
		}
		log.Printf("%s done, items=%d", name, len(res.Menu.Items))
		out = append(out, res.Menu)
	}

	log.Printf("collect done, sources=%d failed=%d", len(fetchers), failed)
	return out
}

func (a *Aggregator) errorMenu(name string) menu.Menu {
	now := a.now()
	day, _ := menu.DayName(now)
	return menu.New(name, []menu.Item{menu.NewItem(menu.ErrorText, "")}, day, menu.ShortDate(now))
}
