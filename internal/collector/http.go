package collector

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 16 << 20 // 16MB，菜单照片可能较大

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0"
	defaultUserAgent = "LunchHubBot/1.0"
)

// 部分站点只有带上浏览器 UA 和这串 cookie 才会返回服务端渲染的页面，否则只有一段 JS
const browserCookie = "AMCV_1548453B5D8483AE0A495FCB%40AdobeOrg=179643557%7CMCIDTS%7C19825%7CMCMID%7C92214235" +
	"278812603797120205436681051174%7CMCOPTOUT-1712917980s%7CNONE%7CvVersion%7C5.5.0; rbzid" +
	"=XeNXGFDRlnehOGsGuXWH+uQy/9XzM+lWsCGv51Q1eJW4rNY8MUJ9jG4FnFJbYEYj7IROndZiocu4z/smAjLW+" +
	"4UriETWX6Gb1wJZA59YyKBy8ae6RPg3tOtsj+6CQ1wmoAeDcax2fJpXSod8rpvAQ6jCcawhn7IVTSnbXuZwl0P" +
	"CtfvJ9M3/hzcV7+Okvt3xHiv8R7HPyGu7x17EDfy/96i9n6QUlFH9mTj/SSkdf0kVhP001B5ST/hFPDfjXvv9;" +
	" rbzsessionid=e7ab98f3aca5de4515a1114d130aa99e; AMCVS_1548453B5D8483AE0A495FCB%40Adobe" +
	"Org=1; cookieAcceptanceLevelWSB=2; ADVTrackingWSB=1; s_cc=true"

// requestOptions 控制单次请求是否伪装成浏览器
type requestOptions struct {
	browser bool
}

func newCollector(opts requestOptions) *colly.Collector {
	ua := defaultUserAgent
	if opts.browser {
		ua = browserUserAgent
	}
	c := colly.NewCollector(
		colly.UserAgent(ua),
		colly.MaxBodySize(maxBodyBytes),
	)
	c.SetRequestTimeout(requestTimeout)
	if opts.browser {
		c.OnRequest(func(r *colly.Request) {
			r.Headers.Set("Cookie", browserCookie)
		})
	}
	return c
}

// download 访问一次 url 并返回响应体；非 2xx 由 colly 视为错误
func download(url string, opts requestOptions) ([]byte, error) {
	c := newCollector(opts)

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("empty response from %s", url)
	}
	return body, nil
}

// fetchPage 下载并解析 HTML 页面
func fetchPage(url string, opts requestOptions) (*goquery.Document, error) {
	body, err := download(url, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", url, err)
	}
	return doc, nil
}

// fetchImage 下载菜单图片原始字节
func fetchImage(url string) ([]byte, error) {
	body, err := download(url, requestOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch image %s: %w", url, err)
	}
	log.Printf("fetched image %s (%d bytes)", url, len(body))
	return body, nil
}
