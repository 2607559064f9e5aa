package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// 占位文案：抓取失败时菜单里只放一条提示
const (
	NotFoundText = "Menu pro dnešní den nebylo nalezeno."
	ErrorText    = "Chyba při získávání menu."
)

// Item 单个菜品，价格为空表示未知
type Item struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

func NewItem(name, price string) Item {
	return Item{Name: name, Price: price}
}

func (i Item) String() string {
	if i.Price == "" {
		return i.Name
	}
	return i.Name + " - " + i.Price
}

// Menu 某家餐厅当天的菜单，字段顺序即序列化顺序：name, items, day, date
type Menu struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
	Day   string `json:"day"`
	Date  string `json:"date"`
}

// New 构造 Menu；date 开头的单个 0 会被去掉（"05.12." -> "5.12."）
func New(name string, items []Item, day, date string) Menu {
	if items == nil {
		items = []Item{}
	}
	return Menu{
		Name:  name,
		Items: items,
		Day:   day,
		Date:  strings.TrimPrefix(date, "0"),
	}
}

// NotFound 返回只含一条提示的菜单，text 为空时使用默认文案
func NotFound(name, day, date, text string) Menu {
	if text == "" {
		text = NotFoundText
	}
	return New(name, []Item{NewItem(text, "")}, day, date)
}

// JSON 以 4 空格缩进输出，不转义非 ASCII 与 HTML 字符
func (m Menu) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("menu %s: encode: %w", m.Name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (m Menu) String() string {
	parts := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		parts = append(parts, it.String())
	}
	return fmt.Sprintf("%s - %s - %s \n [%s]", m.Name, m.Day, m.Date, strings.Join(parts, ", "))
}
