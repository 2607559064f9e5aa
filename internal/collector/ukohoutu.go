package collector

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
)

const (
	uKohoutuName = "U Kohoutů"
	uKohoutuURL  = "https://ukohoutubrno.cz/denni-menu/"
)

// UKohoutuFetcher 页面 div.listek 中按天排列 div.row.mb-4 块，
// 按 "D. M. YYYY" 匹配今天，找不到时退回第一个块（通常是本周一）
type UKohoutuFetcher struct {
	URL string
	Now func() time.Time
}

func (u *UKohoutuFetcher) Name() string {
	return uKohoutuName
}

func (u *UKohoutuFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch U Kohoutů menu...")

	pageURL := u.URL
	if pageURL == "" {
		pageURL = uKohoutuURL
	}
	doc, err := fetchPage(pageURL, requestOptions{})
	if err != nil {
		return menu.Menu{}, fmt.Errorf("ukohoutu: %w", err)
	}
	return parseUKohoutu(doc, clock(u.Now))
}

func parseUKohoutu(doc *goquery.Document, now time.Time) (menu.Menu, error) {
	list := doc.Find("div.listek").First()
	if list.Length() == 0 {
		return menu.Menu{}, errors.New("ukohoutu: div with class 'listek' (daily menu container) not found")
	}

	blocks := list.Find("div.row.mb-4")
	if blocks.Length() == 0 {
		return menu.Menu{}, errors.New("ukohoutu: no day blocks with class 'row mb-4' found in menu")
	}

	todayStr := fmt.Sprintf("%d. %d. %d", now.Day(), int(now.Month()), now.Year())
	selected := blocks.First()
	blocks.EachWithBreak(func(_ int, b *goquery.Selection) bool {
		if nodeText(b.Find("div.date").First()) == todayStr {
			selected = b
			return false
		}
		return true
	})

	day := nodeText(selected.Find("div.day").First())
	date := nodeText(selected.Find("div.date").First())

	// 汤放进每道主菜名称的括号里
	soup := cutAllergens(nodeText(selected.Find("div.row-polevka div.polevka").First()))

	var items []menu.Item
	selected.Find("div.row.row-food").Each(func(_ int, row *goquery.Selection) {
		name := cutAllergens(nodeText(row.Find("div.food").First()))
		price := nodeText(row.Find("div.price").First())
		if soup != "" {
			name = fmt.Sprintf("%s (polévka: %s)", name, soup)
		}
		items = append(items, menu.NewItem(name, price))
	})

	if len(items) == 0 {
		return menu.NotFound(uKohoutuName, strings.ToLower(day), date, ""), nil
	}
	return menu.New(uKohoutuName, items, strings.ToLower(day), date), nil
}
