package collector

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// strippedStrings 返回选中元素内所有去掉首尾空白后非空的文本节点
func strippedStrings(s *goquery.Selection) []string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return parts
}

// nodeText 文本节点用单个空格拼接，避免 "<b>A</b>B" 被 Text() 粘成 "AB"
func nodeText(s *goquery.Selection) string {
	return strings.Join(strippedStrings(s), " ")
}

// nextNode 按文档先序遍历返回 n 之后的下一个节点（先子节点，再兄弟，再祖先的兄弟）
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// findNext 按文档顺序查找 from 之后第一个匹配 selector 的元素，找不到时返回空 Selection
func findNext(doc *goquery.Document, from *goquery.Selection, selector string) *goquery.Selection {
	if from.Length() == 0 {
		return doc.Find(selector).Slice(0, 0)
	}
	candidates := doc.Find(selector)
	wanted := make(map[*html.Node]struct{}, candidates.Length())
	for _, n := range candidates.Nodes {
		wanted[n] = struct{}{}
	}
	for n := nextNode(from.Get(0)); n != nil; n = nextNode(n) {
		if _, ok := wanted[n]; ok {
			return candidates.FilterNodes(n)
		}
	}
	return candidates.Slice(0, 0)
}

// absURL 把页面中的相对链接补全为绝对地址
func absURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// cutAllergens 去掉 "A: 1,3,7" 之类的过敏原标注，只保留前面的菜名
func cutAllergens(s string) string {
	if i := strings.Index(s, "A:"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
