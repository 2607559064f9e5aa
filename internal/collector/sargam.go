package collector

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
)

const (
	sargamName = "Sargam"
	sargamURL  = "https://sargamrestaurace.cz/Sargam1/DMenuItems"
)

// SargamFetcher 每天一个 .category 标题，id 为英文星期名；
// 标题的祖父元素内每个 div.dish-name 之后依次是 dish-number（价格）和 dish-info
type SargamFetcher struct {
	URL string
	Now func() time.Time
}

func (s *SargamFetcher) Name() string {
	return sargamName
}

func (s *SargamFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch Sargam menu...")

	pageURL := s.URL
	if pageURL == "" {
		pageURL = sargamURL
	}
	doc, err := fetchPage(pageURL, requestOptions{})
	if err != nil {
		return menu.Menu{}, fmt.Errorf("sargam: %w", err)
	}
	return parseSargam(doc, clock(s.Now))
}

func parseSargam(doc *goquery.Document, now time.Time) (menu.Menu, error) {
	weekday := now.Weekday().String()
	header := doc.Find(".category").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		id, _ := sel.Attr("id")
		return id == weekday
	}).First()
	if header.Length() == 0 {
		return menu.Menu{}, fmt.Errorf("sargam: day header #%s not found", weekday)
	}

	var items []menu.Item
	header.Parent().Parent().Find("div.dish-name").Each(func(_ int, dish *goquery.Selection) {
		name := strings.TrimSpace(dish.Text())
		price := strings.TrimSpace(findNext(doc, dish, "div.dish-number").Text())
		info := strings.TrimSpace(findNext(doc, dish, "div.dish-info").Text())
		if info != "" {
			name = fmt.Sprintf("%s (%s)", name, info)
		}
		items = append(items, menu.NewItem(name, price))
	})

	day, _ := menu.DayName(now)
	date := now.Format("02.01.")
	if len(items) == 0 {
		return menu.NotFound(sargamName, day, date, ""), nil
	}
	return menu.New(sargamName, items, day, date), nil
}
