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
	bonAmiName    = "Bon Ami"
	bonAmiURL     = "https://www.bonamirestaurant.cz/"
	bonAmiHeading = "Naše denní nabídka"
)

// 菜单行形如 "1) Kuřecí řízek, bramborová kaše 145 Kč"
var bonAmiItemRe = regexp.MustCompile(`^\d\)(.*)`)

// BonAmiFetcher 菜单以图片形式发布在 "Naše denní nabídka" 标题之后（第二张图片），
// 识别后以 "星期 日期" 开头的行定位当天，行尾剩余部分即当天的汤
type BonAmiFetcher struct {
	URL string
	OCR OCR
	Now func() time.Time
}

func (b *BonAmiFetcher) Name() string {
	return bonAmiName
}

func (b *BonAmiFetcher) Fetch() (menu.Menu, error) {
	log.Println("fetch Bon Ami menu...")

	_, day, date := today(b.Now)
	pageURL := b.URL
	if pageURL == "" {
		pageURL = bonAmiURL
	}

	text, err := recognizeMenuImage("bonami", pageURL, locateBonAmiImage, b.OCR, OCROptions{SingleColumn: true})
	if err != nil {
		log.Printf("fetch Bon Ami failed: %v", err)
		return menu.NotFound(bonAmiName, day, date, ""), nil
	}
	return parseBonAmi(text, day, date), nil
}

// locateBonAmiImage 标题之后按文档顺序的第二张图片，第一张是装饰图
func locateBonAmiImage(doc *goquery.Document) string {
	var heading *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == bonAmiHeading {
			heading = s
			return false
		}
		return true
	})
	if heading == nil {
		return ""
	}
	img := findNext(doc, findNext(doc, heading, "img"), "img")
	src, _ := img.Attr("src")
	return strings.TrimSpace(src)
}

func parseBonAmi(text, day, date string) menu.Menu {
	notFound := menu.NotFound(bonAmiName, day, date, "")
	if day == "" {
		return notFound
	}

	header := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(day+" "+date) + `(.*)`)
	lines := nonEmptyLines(text)

	start := -1
	soup := ""
	for i, line := range lines {
		if m := header.FindStringSubmatch(line); m != nil {
			start = i
			soup = strings.TrimSpace(m[1])
			break
		}
	}
	if start < 0 || soup == "" {
		log.Printf("bonami: no menu for %s %s", day, date)
		return notFound
	}

	items := []menu.Item{menu.NewItem(soup, "")}
	for _, line := range lines[start+1:] {
		m := bonAmiItemRe.FindStringSubmatch(line)
		if m == nil {
			break
		}
		// 行尾两个字段是价格和货币，例如 "145 Kč"
		fields := strings.Fields(m[1])
		if len(fields) < 3 {
			log.Printf("bonami: malformed menu line %q", line)
			return notFound
		}
		n := len(fields)
		desc := strings.Join(fields[:n-2], " ")
		items = append(items, menu.NewItem(desc, fields[n-2]+" "+fields[n-1]))
	}
	return menu.New(bonAmiName, items, day, date)
}
