package presenter

import (
	"html"
	"strings"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
)

// RenderHTML 邮件正文：每家餐厅一个 <h1> 标题、每道菜一行、末尾 <hr>，块之间空一行
func RenderHTML(menus []menu.Menu) string {
	var b strings.Builder
	for _, m := range menus {
		b.WriteString("<h1>" + m.Name + "</h1>")
		for _, it := range m.Items {
			b.WriteString(it.Name + " " + it.Price + " <br>")
		}
		b.WriteString("<hr>")
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// EscapeMenus 返回名称与价格经过 HTML 转义的副本，供直接嵌入网页使用
func EscapeMenus(menus []menu.Menu) []menu.Menu {
	out := make([]menu.Menu, 0, len(menus))
	for _, m := range menus {
		items := make([]menu.Item, 0, len(m.Items))
		for _, it := range m.Items {
			items = append(items, menu.Item{Name: html.EscapeString(it.Name), Price: html.EscapeString(it.Price)})
		}
		m.Name = html.EscapeString(m.Name)
		m.Items = items
		out = append(out, m)
	}
	return out
}

// RenderText 聊天消息正文，已做 HTML 转义，可用 Telegram 的 HTML 模式发送
func RenderText(menus []menu.Menu) string {
	blocks := make([]string, 0, len(menus))
	for _, m := range menus {
		lines := []string{"<b>" + html.EscapeString(m.Name) + "</b>"}
		for _, it := range m.Items {
			lines = append(lines, "- "+html.EscapeString(it.String()))
		}
		lines = append(lines, "---")
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// Subject 邮件标题，例如 "Úterý 20. 1."
func Subject(now time.Time) string {
	return menu.TodayHeader(now)
}
