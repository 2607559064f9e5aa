package collector

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
)

const (
	leharoName = "Leháro"
	leharoURL  = "https://dejsileharo.cz/bistroleharo-poledni-menu/"
)

var (
	leharoTipRe = regexp.MustCompile(`(?i)tip týdne`)
	// 任意非空文本行（至少两个非空白字符）
	leharoTextRe = regexp.MustCompile(`^\s*(\S.*\S)\s*$`)
	// "描述 + 行尾价格"，价格后可能带 ",-"
	leharoPriceRe = regexp.MustCompile(`^\s*(\S.*\S)\s+(\d+)\s*,*-*\s*$`)
)

// LeharoFetcher 周菜单照片：当天星期名所在行之后，第一行是汤，随后每行 "菜名 价格"；
// 另有一段 "TIP TÝDNE" 周推荐
type LeharoFetcher struct {
	URL string
	OCR OCR
	Now func() time.Time
}

func (l *LeharoFetcher) Name() string {
	return leharoName
}

func (l *LeharoFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch Leháro menu...")

	_, day, date := today(l.Now)
	pageURL := l.URL
	if pageURL == "" {
		pageURL = leharoURL
	}

	text, err := recognizeMenuImage("leharo", pageURL, locateLeharoImage, l.OCR, OCROptions{SingleColumn: true})
	if err != nil {
		log.Printf("fetch Leháro failed: %v", err)
		return menu.NotFound(leharoName, day, date, ""), nil
	}
	return parseLeharo(text, day, date), nil
}

func locateLeharoImage(doc *goquery.Document) string {
	src, _ := doc.Find("main.site-main img").First().Attr("src")
	return strings.TrimSpace(src)
}

func parseLeharo(text, day, date string) menu.Menu {
	notFound := menu.NotFound(leharoName, day, date, "")
	if day == "" {
		return notFound
	}

	dayRe := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(day))
	lines := nonEmptyLines(text)

	// 星期名可能在周菜单中出现多次，取最后一次
	start, tip := -1, -1
	for i, line := range lines {
		if dayRe.MatchString(line) {
			start = i
		}
		if leharoTipRe.MatchString(line) {
			tip = i
		}
	}
	if start < 0 {
		log.Printf("leharo: no header for %s", day)
		return notFound
	}

	var items []menu.Item
	soupTaken := false
	for _, line := range lines[start+1:] {
		priced := leharoPriceRe.FindStringSubmatch(line)
		plain := leharoTextRe.FindStringSubmatch(line)
		if priced == nil && (soupTaken || plain == nil) {
			break
		}
		if plain != nil && !soupTaken {
			items = append(items, menu.NewItem(strings.TrimSpace(plain[0]), ""))
			soupTaken = true
		}
		if priced != nil {
			items = append(items, menu.NewItem(strings.TrimSpace(priced[1]), strings.TrimSpace(priced[2])+" Kč"))
		}
	}

	if tip >= 0 {
		if item, ok := leharoTip(lines[tip+1:]); ok {
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return notFound
	}
	return menu.New(leharoName, items, day, date)
}

// leharoTip 周推荐：价格行之前最近的文本行作为名称，价格行的描述放在括号里
func leharoTip(lines []string) (menu.Item, bool) {
	title := ""
	for _, line := range lines {
		if m := leharoPriceRe.FindStringSubmatch(line); m != nil {
			name := title + " (" + strings.TrimSpace(m[1]) + ")"
			return menu.NewItem(name, strings.TrimSpace(m[2])+" Kč"), true
		}
		if m := leharoTextRe.FindStringSubmatch(line); m != nil {
			title = strings.TrimSpace(m[0])
		}
	}
	return menu.Item{}, false
}
