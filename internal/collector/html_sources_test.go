package collector

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LJTian/LunchHub/internal/menu"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func newPageServer(t *testing.T, page string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const naTratiPage = `<html><body>
<div id="obedovemenu">
  <span class="lunch-menu-description">Týden 12. 10. - 16. 10.</span>
  <ul class="nav">
    <li><button class="nav-link" data-bs-target="#day-20261014">Středa</button></li>
    <li><button class="nav-link active" data-bs-target="#day-20261015">Čtvrtek</button></li>
  </ul>
  <div class="tab-content">
    <div id="day-20261014">
      <table><tr><td class="list-items-item-name">Včerejší guláš</td><td class="list-items-item-price">140 Kč</td></tr></table>
    </div>
    <div id="day-20261015">
      <table><tr><td class="list-items-item-name">Soup X</td><td class="list-items-item-price"></td></tr></table>
      <table><tr><td class="list-items-item-name">Main Y</td><td class="list-items-item-price">120 Kč</td></tr></table>
    </div>
  </div>
</div>
</body></html>`

func TestParseNaTratiActiveDay(t *testing.T) {
	m, err := parseNaTrati(mustDoc(t, naTratiPage))
	require.NoError(t, err)

	assert.Equal(t, naTratiName, m.Name)
	assert.Equal(t, "čtvrtek", m.Day)
	assert.Equal(t, "15. 10. 2026", m.Date)
	assert.Equal(t, []menu.Item{
		{Name: "Soup X", Price: ""},
		{Name: "Main Y", Price: "120 Kč"},
	}, m.Items)
}

func TestParseNaTratiDescriptionRow(t *testing.T) {
	page := `<div id="obedovemenu"><ul class="nav">
<li><button class="nav-link active" aria-controls="friday">Pátek</button></li></ul>
<span class="lunch-menu-description">16. 10. 2026</span>
<div id="friday"><table>
<tr><td class="list-items-item-name">Smažený sýr</td><td class="list-items-item-price">165 Kč</td></tr>
<tr class="menu-items-more-information"><td><span class="list-items-description">Polévka: Gulášová</span></td></tr>
</table><table><tr><td>bez názvu</td></tr></table></div></div>`

	m, err := parseNaTrati(mustDoc(t, page))
	require.NoError(t, err)

	assert.Equal(t, "pátek", m.Day)
	assert.Equal(t, "16. 10. 2026", m.Date)
	assert.Equal(t, []menu.Item{{Name: "Smažený sýr (Polévka: Gulášová)", Price: "165 Kč"}}, m.Items)
}

func TestParseNaTratiMissingAnchors(t *testing.T) {
	_, err := parseNaTrati(mustDoc(t, `<div id="jidelni-listek"></div>`))
	assert.ErrorContains(t, err, "obedovemenu")

	_, err = parseNaTrati(mustDoc(t, `<div id="obedovemenu"><ul class="nav"><button class="nav-link">Po</button></ul></div>`))
	assert.ErrorContains(t, err, "active day button")

	_, err = parseNaTrati(mustDoc(t, `<div id="obedovemenu"><ul class="nav"><button class="nav-link active" data-bs-target="#day-1">Po</button></ul></div>`))
	assert.ErrorContains(t, err, "tab pane")
}

func TestNaTratiFetcherEndToEnd(t *testing.T) {
	srv := newPageServer(t, naTratiPage, nil)
	f := &NaTratiFetcher{URL: srv.URL, Now: fixedClock(thursday)}

	first, err := f.Fetch()
	require.NoError(t, err)
	second, err := f.Fetch()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Items, 2)
}

func TestNaTratiClosedOnMondayWithoutFetching(t *testing.T) {
	var hits int32
	srv := newPageServer(t, naTratiPage, &hits)
	monday := time.Date(2026, 10, 12, 11, 0, 0, 0, time.Local)
	f := &NaTratiFetcher{URL: srv.URL, Now: fixedClock(monday)}

	m, err := f.Fetch()
	require.NoError(t, err)

	assert.Zero(t, atomic.LoadInt32(&hits))
	require.Len(t, m.Items, 1)
	assert.Equal(t, naTratiClosed, m.Items[0].Name)
	assert.Empty(t, m.Day)
	assert.Empty(t, m.Date)
}

func TestNaTratiFetcherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := &NaTratiFetcher{URL: srv.URL, Now: fixedClock(thursday)}
	_, err := f.Fetch()
	assert.Error(t, err)
}

const uKohoutuPage = `<html><body><h1>Denní menu</h1>
<div class="listek">
  <div class="row mb-4">
    <div class="day">Pondělí</div><div class="date">12. 10. 2026</div>
    <div class="row-polevka"><div class="polevka">Hovězí vývar A: 1,9</div></div>
    <div class="row row-food"><div class="food">Svíčková <b>na smetaně</b> A: 1,3,7</div><div class="price">159 Kč</div></div>
  </div>
  <div class="row mb-4">
    <div class="day">Čtvrtek</div><div class="date">15. 10. 2026</div>
    <div class="row-polevka"><div class="polevka">Kulajda A: 7</div></div>
    <div class="row row-food"><div class="food">Kuřecí řízek A: 1,3</div><div class="price">149 Kč</div></div>
    <div class="row row-food"><div class="food">Rizoto</div><div class="price">139 Kč</div></div>
  </div>
</div></body></html>`

func TestParseUKohoutuMatchesToday(t *testing.T) {
	m, err := parseUKohoutu(mustDoc(t, uKohoutuPage), thursday)
	require.NoError(t, err)

	assert.Equal(t, uKohoutuName, m.Name)
	assert.Equal(t, "čtvrtek", m.Day)
	assert.Equal(t, "15. 10. 2026", m.Date)
	assert.Equal(t, []menu.Item{
		{Name: "Kuřecí řízek (polévka: Kulajda)", Price: "149 Kč"},
		{Name: "Rizoto (polévka: Kulajda)", Price: "139 Kč"},
	}, m.Items)
}

func TestParseUKohoutuFallsBackToFirstBlock(t *testing.T) {
	m, err := parseUKohoutu(mustDoc(t, uKohoutuPage), thursday.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, "pondělí", m.Day)
	assert.Equal(t, "12. 10. 2026", m.Date)
	assert.Equal(t, []menu.Item{{Name: "Svíčková na smetaně (polévka: Hovězí vývar)", Price: "159 Kč"}}, m.Items)
}

func TestParseUKohoutuMissingContainer(t *testing.T) {
	_, err := parseUKohoutu(mustDoc(t, `<div class="menu"></div>`), thursday)
	assert.ErrorContains(t, err, "listek")

	_, err = parseUKohoutu(mustDoc(t, `<div class="listek"><p>Zavřeno</p></div>`), thursday)
	assert.ErrorContains(t, err, "day blocks")
}

func TestParseBernard(t *testing.T) {
	page := `<ul class="days">
<li class="active-tab"><strong> Čtvrtek </strong><span>15. 10.</span></li>
<li><strong>Pátek</strong><span>16. 10.</span></li></ul>
<div id="day-selection-tab-4" class="tab-panel"><ul class="food-list"><li><div class="single-food"><strong>Páteční ryba</strong><span class="food-price">199 Kč</span></div></li></ul></div>
<div id="day-selection-tab-3" class="tab-panel active-tab">
<ul class="food-list">
  <li><div class="single-food"><strong>Kulajda</strong><span class="food-price">45 Kč</span></div></li>
  <li><div class="single-food"><strong>Pivní guláš</strong><span class="food-price">179 Kč</span></div></li>
</ul></div>`

	m, err := parseBernard(mustDoc(t, page))
	require.NoError(t, err)

	assert.Equal(t, "čtvrtek", m.Day)
	assert.Equal(t, "15. 10.", m.Date)
	assert.Equal(t, []menu.Item{
		{Name: "Kulajda", Price: "45 Kč"},
		{Name: "Pivní guláš", Price: "179 Kč"},
	}, m.Items)

	_, err = parseBernard(mustDoc(t, `<ul><li>Čtvrtek</li></ul>`))
	assert.Error(t, err)
}

func TestParseSargam(t *testing.T) {
	page := `<div class="day-block">
  <div class="header-row"><h3 id="Thursday" class="category">Čtvrtek</h3></div>
  <div class="dishes">
    <div class="dish"><div class="dish-name">Butter Chicken</div><div class="dish-number">169 Kč</div><div class="dish-info">rýže, naan</div></div>
    <div class="dish"><div class="dish-name">Dal Makhani</div><div class="dish-number">139 Kč</div><div class="dish-info">rýže</div></div>
  </div>
</div>
<div class="day-block">
  <div class="header-row"><h3 id="Friday" class="category">Pátek</h3></div>
  <div class="dishes"><div class="dish"><div class="dish-name">Fish Curry</div><div class="dish-number">179 Kč</div><div class="dish-info">rýže</div></div></div>
</div>`

	m, err := parseSargam(mustDoc(t, page), thursday)
	require.NoError(t, err)

	assert.Equal(t, sargamName, m.Name)
	assert.Equal(t, "čtvrtek", m.Day)
	assert.Equal(t, "15.10.", m.Date)
	assert.Equal(t, []menu.Item{
		{Name: "Butter Chicken (rýže, naan)", Price: "169 Kč"},
		{Name: "Dal Makhani (rýže)", Price: "139 Kč"},
	}, m.Items)

	_, err = parseSargam(mustDoc(t, page), thursday.AddDate(0, 0, 2))
	assert.ErrorContains(t, err, "Saturday")
}

func TestParsePepe(t *testing.T) {
	page := `<div class="content">
<h2>Středa – 14. 10. 2026</h2>
<table><tr><td>1.</td><td>Včerejší řízek</td><td>99 Kč</td></tr></table>
<h2>Čtvrtek – 15. 10. 2026</h2>
<p>Polévka v ceně</p>
<table>
  <tr><td>Polévka:</td><td>Kulajda</td><td>35 Kč</td></tr>
  <tr><td>1.</td><td>Řízek, bramborový salát</td><td>159 Kč</td></tr>
  <tr><td colspan="3">Dobrou chuť</td></tr>
</table>
<table style="width:100%"><tr><td>x</td><td>y</td><td>z</td></tr></table>
</div>`

	m := parsePepe(mustDoc(t, page), thursday)
	assert.Equal(t, "čtvrtek", m.Day)
	assert.Equal(t, "15.10.", m.Date)
	assert.Equal(t, []menu.Item{
		{Name: "Polévka: Kulajda", Price: "35 Kč"},
		{Name: "1. Řízek, bramborový salát", Price: "159 Kč"},
	}, m.Items)

	empty := parsePepe(mustDoc(t, page), thursday.AddDate(0, 0, 1))
	require.Len(t, empty.Items, 1)
	assert.Equal(t, menu.NotFoundText, empty.Items[0].Name)
}

func TestParseGourmet(t *testing.T) {
	page := `<h1 class="event-title-w text-center">15.10.2026</h1>
<div class="event-info text-center"><table>
  <tr><td>0,25l</td><td>Polévka dne</td><td>35 Kč</td></tr>
  <tr><td>150g</td><td>Svíčková na smetaně</td><td>165 Kč</td></tr>
</table></div>
<div class="pizza"><h3>PIZZA</h3><p>Pizza 1 *1,7<br>Margherita<br>149 Kč<br>Pizza 2 *1,7 Salami<br>169 Kč</p></div>`

	m, err := parseGourmet(mustDoc(t, page))
	require.NoError(t, err)

	assert.Equal(t, gourmetName, m.Name)
	assert.Equal(t, "čtvrtek", m.Day)
	assert.Equal(t, "15.10.", m.Date)
	assert.Equal(t, []menu.Item{
		{Name: "Polévka dne", Price: "35 Kč"},
		{Name: "Svíčková na smetaně", Price: "165 Kč"},
		{Name: "Pizza 1 *1,7: Margherita", Price: "149 Kč"},
		{Name: "Pizza 2 *1,7: Salami", Price: "169 Kč"},
	}, m.Items)
}

func TestParseGourmetBadDate(t *testing.T) {
	page := `<h1 class="event-title-w text-center">Zavřeno</h1><div class="event-info text-center"><table></table></div>`
	_, err := parseGourmet(mustDoc(t, page))
	assert.ErrorContains(t, err, "unexpected menu date")
}

func TestParseGourmetDate(t *testing.T) {
	d, err := parseGourmetDate(" 15. 10. 2026 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local), d)

	for _, bad := range []string{"31.2.2026", "15.13.2026", "0.10.2026", "15.10"} {
		_, err := parseGourmetDate(bad)
		assert.ErrorContains(t, err, "unexpected menu date", bad)
	}
}

func TestFindNextFollowsDocumentOrder(t *testing.T) {
	doc := mustDoc(t, `<div><h2 id="a">A</h2></div><p><img id="one"></p><img id="two">`)
	first := findNext(doc, doc.Find("#a"), "img")
	id, _ := first.Attr("id")
	assert.Equal(t, "one", id)

	second := findNext(doc, first, "img")
	id, _ = second.Attr("id")
	assert.Equal(t, "two", id)

	assert.Zero(t, findNext(doc, second, "img").Length())
}

func TestNodeTextJoinsFragments(t *testing.T) {
	doc := mustDoc(t, `<div id="x">  Svíčková<b>na smetaně</b>
	 A: 1,3 </div>`)
	assert.Equal(t, "Svíčková na smetaně A: 1,3", nodeText(doc.Find("#x")))
	assert.Equal(t, "Svíčková na smetaně", cutAllergens(nodeText(doc.Find("#x"))))
}
