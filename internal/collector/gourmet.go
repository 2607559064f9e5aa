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
	"golang.org/x/net/html"
)

const (
	gourmetName = "Gourmet Ponávka"
	gourmetURL  = "http://ponavka.gourmetrestaurant.cz/"
)

var (
	// "Pizza 3 *1,7" 编号和过敏原
	gourmetPizzaRe = regexp.MustCompile(`^\s*(Pizza\s*\d+\s*[\*\d,]*)?\s*`)
	gourmetPriceRe = regexp.MustCompile(`^(\d+\s*Kč)\s*$`)
)

// GourmetFetcher h1 标题是菜单日期，div.event-info 里的表格是当天菜单；
// "PIZZA" 标题后的兄弟元素是排版混乱的披萨列表
type GourmetFetcher struct {
	URL string
}

func (g *GourmetFetcher) Name() string {
	return gourmetName
}

func (g *GourmetFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch Gourmet menu...")

	pageURL := g.URL
	if pageURL == "" {
		pageURL = gourmetURL
	}
	doc, err := fetchPage(pageURL, requestOptions{})
	if err != nil {
		return menu.Menu{}, fmt.Errorf("gourmet: %w", err)
	}
	return parseGourmet(doc)
}

func parseGourmet(doc *goquery.Document) (menu.Menu, error) {
	field := doc.Find("div.event-info.text-center").First()
	if field.Length() == 0 {
		return menu.Menu{}, errors.New("gourmet: menu container (div.event-info) not found")
	}
	title := doc.Find("h1.event-title-w.text-center").First()
	if title.Length() == 0 {
		return menu.Menu{}, errors.New("gourmet: menu date title (h1.event-title-w) not found")
	}
	menuDate, err := parseGourmetDate(title.Text())
	if err != nil {
		return menu.Menu{}, err
	}
	day, _ := menu.DayName(menuDate)
	date := menuDate.Format("02.01.")

	table := field.Find("table").First()
	if table.Length() == 0 {
		return menu.Menu{}, errors.New("gourmet: menu table not found")
	}

	var items []menu.Item
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		items = append(items, menu.NewItem(strings.TrimSpace(cells.Eq(1).Text()), strings.TrimSpace(cells.Eq(2).Text())))
	})
	items = append(items, gourmetPizzas(doc)...)

	if len(items) == 0 {
		return menu.NotFound(gourmetName, day, date, ""), nil
	}
	return menu.New(gourmetName, items, day, date), nil
}

// parseGourmetDate 标题形如 "15.10.2026"，也容忍 "15. 10. 2026"
func parseGourmetDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2.1.2006", strings.ReplaceAll(strings.TrimSpace(s), " ", ""), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("gourmet: unexpected menu date %q: %w", s, err)
	}
	return t, nil
}

// gourmetPizzas 名称与价格分散在多个文本节点里，逐个拼接：
// 编号行开始新的名称，描述追加在名称后，价格行结束一项
func gourmetPizzas(doc *goquery.Document) []menu.Item {
	heading := findTextNode(doc, "PIZZA")
	if heading == nil || heading.Parent == nil {
		return nil
	}
	siblings := doc.FindNodes(heading.Parent).NextAll()
	if siblings.Length() == 0 {
		return nil
	}

	var items []menu.Item
	name, price := "", ""
	for _, value := range strippedStrings(siblings.First()) {
		loc := gourmetPizzaRe.FindStringSubmatchIndex(value)
		head := ""
		if loc[2] >= 0 {
			head = value[loc[2]:loc[3]]
		}
		rest := value[loc[1]:]

		desc, priceText := rest, ""
		if m := gourmetPriceRe.FindStringSubmatch(rest); m != nil {
			desc, priceText = "", m[1]
		}

		if head != "" {
			name = head
		}
		if desc != "" {
			name = strings.TrimSpace(name + ": " + desc)
		}
		if priceText != "" {
			price = strings.TrimSpace(priceText)
			if name != "" && price != "" {
				items = append(items, menu.NewItem(name, price))
			}
		}
	}
	return items
}

// findTextNode 返回内容恰好等于 text 的第一个文本节点
func findTextNode(doc *goquery.Document, text string) *html.Node {
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.TextNode && n.Data == text {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return found
}
