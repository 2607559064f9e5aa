package collector

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
)

const (
	naTratiName   = "Na trati"
	naTratiURL    = "https://www.restauracenatrati.cz"
	naTratiClosed = "Restaurace je v pondělí zavřená"
)

var naTratiDateRe = regexp.MustCompile(`(\d{8})`)

// NaTratiFetcher 午餐菜单在 div#obedovemenu 的 tab 中，激活的 tab 按钮即今天。
// 周一休息，不发请求直接返回提示
type NaTratiFetcher struct {
	URL string
	Now func() time.Time
}

func (n *NaTratiFetcher) Name() string {
	return naTratiName
}

func (n *NaTratiFetcher) Fetch() (menu.Menu, error) {
	if clock(n.Now).Weekday() == time.Monday {
		return menu.NotFound(naTratiName, "", "", naTratiClosed), nil
	}

	log.Println("fetch Na trati menu...")

	pageURL := n.URL
	if pageURL == "" {
		pageURL = naTratiURL
	}
	doc, err := fetchPage(pageURL, requestOptions{})
	if err != nil {
		return menu.Menu{}, fmt.Errorf("natrati: %w", err)
	}
	return parseNaTrati(doc)
}

func parseNaTrati(doc *goquery.Document) (menu.Menu, error) {
	root := doc.Find("div#obedovemenu").First()
	if root.Length() == 0 {
		return menu.Menu{}, errors.New("natrati: div with id='obedovemenu' not found")
	}

	active := root.Find("ul.nav button.nav-link.active").First()
	if active.Length() == 0 {
		return menu.Menu{}, errors.New("natrati: active day button (.nav-link.active) not found")
	}
	day := strings.TrimSpace(active.Text())

	target, _ := active.Attr("data-bs-target")
	if target == "" {
		target, _ = active.Attr("aria-controls")
	}
	if target == "" {
		return menu.Menu{}, errors.New("natrati: active day button does not contain data-bs-target or aria-controls")
	}
	// data-bs-target="#day-20251203" -> "day-20251203"
	targetID := strings.TrimLeft(target, "#")

	date := ""
	if m := naTratiDateRe.FindStringSubmatch(targetID); m != nil {
		ymd := m[1]
		date = fmt.Sprintf("%s. %s. %s", ymd[6:8], ymd[4:6], ymd[0:4])
	} else if span := root.Find("span.lunch-menu-description").First(); span.Length() > 0 {
		date = nodeText(span)
	}

	pane := root.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == targetID
	}).First()
	if pane.Length() == 0 {
		return menu.Menu{}, fmt.Errorf("natrati: tab pane with id='%s' not found", targetID)
	}

	var items []menu.Item
	pane.Find("table").Each(func(_ int, table *goquery.Selection) {
		nameTd := table.Find("td.list-items-item-name").First()
		if nameTd.Length() == 0 {
			return
		}
		name := nodeText(nameTd)

		// 汤或附加说明在下一行
		desc := nodeText(table.Find("tr.menu-items-more-information span.list-items-description").First())
		if desc != "" {
			name = fmt.Sprintf("%s (%s)", name, desc)
		}

		price := nodeText(table.Find("td.list-items-item-price").First())
		items = append(items, menu.NewItem(name, price))
	})

	if len(items) == 0 {
		return menu.NotFound(naTratiName, strings.ToLower(day), date, ""), nil
	}
	return menu.New(naTratiName, items, strings.ToLower(day), date), nil
}
