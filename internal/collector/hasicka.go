package collector

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
)

const (
	hasickaName     = "Na Hasičce"
	hasickaURL      = "https://nahasicce.cz/?lang=cs"
	hasickaNotFound = "Nenalezeno menu pro dnešní den"
)

// OCR 容错：各标记允许的最大编辑次数
const (
	soupMarkerMaxEdits     = 2
	allergenMarkerMaxEdits = 4
	optionMarkerMaxEdits   = 2
)

var (
	soupMarker     = NewMarker("POLÉVKA", soupMarkerMaxEdits)
	allergenMarker = NewMarker("Potravinové alergeny", allergenMarkerMaxEdits)
	optionMarker   = NewMarker("MENU č.#", optionMarkerMaxEdits)

	hasickaDateRe = regexp.MustCompile(`([0-3]?[0-9])\.(1?[0-9])\.(20[2-9][0-9])`)
)

// HasickaFetcher 每日菜单照片：POLÉVKA 与过敏原说明之间是菜单区域，
// 区域内按 "MENU č.N" 切分，每段最后一个三位数是价格
type HasickaFetcher struct {
	URL string
	OCR OCR
	Now func() time.Time
	// CheckDate 为 true 时只接受照片上日期等于今天的菜单
	CheckDate bool
}

func NewHasickaFetcher(ocr OCR) *HasickaFetcher {
	return &HasickaFetcher{URL: hasickaURL, OCR: ocr, CheckDate: true}
}

func (h *HasickaFetcher) Name() string {
	return hasickaName
}

func (h *HasickaFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch Na Hasičce menu...")

	now := clock(h.Now)
	day, _ := menu.DayName(now)
	date := now.Format("02.01.")

	pageURL := h.URL
	if pageURL == "" {
		pageURL = hasickaURL
	}

	text, err := recognizeMenuImage("hasicka", pageURL, locateHasickaImage, h.OCR, OCROptions{})
	if err != nil {
		log.Printf("fetch Na Hasičce failed: %v", err)
		return menu.NotFound(hasickaName, day, date, hasickaNotFound), nil
	}
	return parseHasicka(text, now, h.CheckDate), nil
}

func locateHasickaImage(doc *goquery.Document) string {
	href, _ := doc.Find("a.menu-image").First().Attr("href")
	return strings.TrimSpace(href)
}

func parseHasicka(text string, now time.Time, checkDate bool) menu.Menu {
	day, _ := menu.DayName(now)
	date := now.Format("02.01.")
	notFound := menu.NotFound(hasickaName, day, date, hasickaNotFound)

	if checkDate && !hasickaDateIsToday(text, now) {
		log.Printf("hasicka: menu is not for %s", now.Format("2006-01-02"))
		return notFound
	}

	rs := []rune(text)
	soup, ok := soupMarker.Find(rs, 0, len(rs))
	if !ok {
		log.Printf("hasicka: soup heading not found")
		return notFound
	}
	allergens, ok := allergenMarker.Find(rs, 0, len(rs))
	if !ok {
		log.Printf("hasicka: allergen legend not found")
		return notFound
	}
	start, end := soup.End, allergens.Start
	if start >= end {
		log.Printf("hasicka: menu region is empty")
		return notFound
	}

	// 第一段是汤，其余每段对应一个 "MENU č.N"
	segments := [][2]int{{start, end}}
	for {
		opt, ok := optionMarker.Find(rs, start, end)
		if !ok {
			break
		}
		segments[len(segments)-1][1] = opt.Start
		segments = append(segments, [2]int{opt.End, end})
		start = opt.End
	}

	items := make([]menu.Item, 0, len(segments))
	for _, seg := range segments {
		items = append(items, hasickaItem(rs[seg[0]:seg[1]]))
	}
	return menu.New(hasickaName, items, day, date)
}

// hasickaDateIsToday 取文本中第一个 "D.M.YYYY" 日期与今天比较
func hasickaDateIsToday(text string, now time.Time) bool {
	m := hasickaDateRe.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])
	if d < 1 || mo < 1 || mo > 12 {
		return false
	}
	parsed := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, now.Location())
	if parsed.Day() != d {
		return false
	}
	ny, nm, nd := now.Date()
	return y == ny && time.Month(mo) == nm && d == nd
}

// hasickaItem 段内最后一个三位数为价格，之前的文本为菜名
func hasickaItem(seg []rune) menu.Item {
	name, price := seg, ""
	if i := lastThreeDigits(seg); i >= 0 {
		price = string(seg[i:i+3]) + " Kč"
		name = seg[:i]
	}
	return menu.NewItem(strings.TrimSpace(strings.ReplaceAll(string(name), "\n", " ")), price)
}

func lastThreeDigits(rs []rune) int {
	isDigit := func(r rune) bool { return r >= '0' && r <= '9' }
	for i := len(rs) - 3; i >= 0; i-- {
		if isDigit(rs[i]) && isDigit(rs[i+1]) && isDigit(rs[i+2]) {
			return i
		}
	}
	return -1
}
