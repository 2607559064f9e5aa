package collector

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
)

const (
	bernardName = "Bernard"
	bernardURL  = "https://www.bernardbar.cz/bar/brno"
)

// BernardFetcher li.active-tab 给出今天的星期与日期，
// 对应的 div#day-selection-tab-* 面板里是 ul.food-list
type BernardFetcher struct {
	URL string
}

func (b *BernardFetcher) Name() string {
	return bernardName
}

func (b *BernardFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch Bernard menu...")

	pageURL := b.URL
	if pageURL == "" {
		pageURL = bernardURL
	}
	doc, err := fetchPage(pageURL, requestOptions{})
	if err != nil {
		return menu.Menu{}, fmt.Errorf("bernard: %w", err)
	}
	return parseBernard(doc)
}

func parseBernard(doc *goquery.Document) (menu.Menu, error) {
	tab := doc.Find("li.active-tab").First()
	if tab.Length() == 0 {
		return menu.Menu{}, errors.New("bernard: active day tab (li.active-tab) not found")
	}
	day := strings.TrimSpace(tab.Find("strong").First().Text())
	date := strings.TrimSpace(tab.Find("span").First().Text())

	panel := doc.Find(`div[id^="day-selection-tab-"][class*="active-tab"]`).First()
	if panel.Length() == 0 {
		return menu.Menu{}, errors.New("bernard: active day panel (div#day-selection-tab-*) not found")
	}

	var items []menu.Item
	panel.Find("ul.food-list div.single-food").Each(func(_ int, food *goquery.Selection) {
		name := strings.TrimSpace(food.Find("strong").First().Text())
		if name == "" {
			return
		}
		price := strings.TrimSpace(food.Find("span.food-price").First().Text())
		items = append(items, menu.NewItem(name, price))
	})

	if len(items) == 0 {
		return menu.NotFound(bernardName, strings.ToLower(day), date, ""), nil
	}
	return menu.New(bernardName, items, strings.ToLower(day), date), nil
}
