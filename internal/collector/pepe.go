package collector

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	pepeName = "Pepe"
	pepeURL  = "https://www.peperestaurace.cz/obedove-menu/"
)

// PepeFetcher 每天一张没有 style 的 table，前面的 h2 兄弟节点写着 "Čtvrtek – 15. 10. 2026"
type PepeFetcher struct {
	URL string
	Now func() time.Time
}

func (p *PepeFetcher) Name() string {
	return pepeName
}

func (p *PepeFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch Pepe menu...")

	pageURL := p.URL
	if pageURL == "" {
		pageURL = pepeURL
	}
	doc, err := fetchPage(pageURL, requestOptions{})
	if err != nil {
		return menu.Menu{}, fmt.Errorf("pepe: %w", err)
	}
	return parsePepe(doc, clock(p.Now)), nil
}

// pepeHeading 页面上的日期标题，日和月补零
func pepeHeading(now time.Time) string {
	return menu.CapitalizedDayName(now) + " – " + now.Format("02. 01. 2006")
}

func parsePepe(doc *goquery.Document, now time.Time) menu.Menu {
	want := pepeHeading(now)

	var items []menu.Item
	doc.Find("table").FilterFunction(func(_ int, t *goquery.Selection) bool {
		style, _ := t.Attr("style")
		return style == ""
	}).Each(func(_ int, table *goquery.Selection) {
		h2 := table.PrevAllFiltered("h2").First()
		if h2.Length() == 0 || firstText(h2) != want {
			return
		}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 3 {
				return
			}
			name := strings.TrimSpace(cells.Eq(0).Text()) + " " + strings.TrimSpace(cells.Eq(1).Text())
			price := strings.TrimSpace(cells.Eq(2).Text())
			items = append(items, menu.NewItem(strings.TrimSpace(name), price))
		})
	})

	day, _ := menu.DayName(now)
	date := now.Format("02.01.")
	if len(items) == 0 {
		log.Printf("pepe: no table for %q", want)
		return menu.NotFound(pepeName, day, date, "")
	}
	return menu.New(pepeName, items, day, date)
}

// firstText 元素第一个子节点为文本时返回其内容
func firstText(s *goquery.Selection) string {
	n := s.Get(0).FirstChild
	if n == nil || n.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(n.Data)
}
