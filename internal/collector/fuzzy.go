package collector

import "unicode"

// markerDigit 在标记模式中代表任意一个数字
const markerDigit = '#'

// Marker 在 OCR 噪声文本中做近似查找的固定标记，
// 允许最多 MaxEdits 次编辑（替换/插入/删除），忽略大小写
type Marker struct {
	Literal  string
	MaxEdits int
	pattern  []rune
}

func NewMarker(literal string, maxEdits int) Marker {
	return Marker{Literal: literal, MaxEdits: maxEdits, pattern: []rune(literal)}
}

// Match 为 rune 下标区间 [Start, End)
type Match struct {
	Start, End int
	Edits      int
}

func runeMatches(p, r rune) bool {
	if p == markerDigit {
		return unicode.IsDigit(r)
	}
	if p == r {
		return true
	}
	return unicode.ToLower(p) == unicode.ToLower(r) || unicode.ToUpper(p) == unicode.ToUpper(r)
}

// Find 在 text[from:to] 中查找标记。
// 从第一个编辑数不超过 MaxEdits 的结束位置开始，在随后连续可接受的结束位置中取编辑数最少的一个；
// 编辑数相同时取更靠后的结束位置，使末尾被识别错的字符归入标记；
// 起点同理取更靠后的，避免把前面的噪声吞进匹配。
func (m Marker) Find(text []rune, from, to int) (Match, bool) {
	if from < 0 {
		from = 0
	}
	if to > len(text) {
		to = len(text)
	}
	plen := len(m.pattern)
	if plen == 0 || from >= to {
		return Match{}, false
	}

	prev := make([]int, plen+1)
	prevStart := make([]int, plen+1)
	cur := make([]int, plen+1)
	curStart := make([]int, plen+1)
	for i := range prev {
		prev[i] = i
		prevStart[i] = from
	}

	found := false
	var best Match
	for p := from; p < to; p++ {
		cur[0], curStart[0] = 0, p+1
		for i := 1; i <= plen; i++ {
			cost := prev[i-1]
			if !runeMatches(m.pattern[i-1], text[p]) {
				cost++
			}
			start := prevStart[i-1]

			// 文本中多出一个字符
			if c := prev[i] + 1; c < cost || (c == cost && prevStart[i] > start) {
				cost, start = c, prevStart[i]
			}
			// 文本中缺少一个模式字符
			if c := cur[i-1] + 1; c < cost || (c == cost && curStart[i-1] > start) {
				cost, start = c, curStart[i-1]
			}
			cur[i], curStart[i] = cost, start
		}

		edits, start := cur[plen], curStart[plen]
		switch {
		case edits <= m.MaxEdits && start < p+1:
			if !found || edits <= best.Edits {
				best = Match{Start: start, End: p + 1, Edits: edits}
			}
			found = true
		case found:
			// 连续可接受的结束位置已经走完
			return best, true
		}

		prev, cur = cur, prev
		prevStart, curStart = curStart, prevStart
	}
	return best, found
}

// FindString 便捷封装：在整段字符串中查找
func (m Marker) FindString(text string) (Match, bool) {
	rs := []rune(text)
	return m.Find(rs, 0, len(rs))
}
