package eastmoney

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fund_backend/internal/feature/funds/domain/entity"
)

// 詳細ページの抽出に使う数値パターン。
var (
	establishedPattern = regexp.MustCompile(`成立日期：(\d{4}-\d{2}-\d{2})`)
	fundSizePattern    = regexp.MustCompile(`基金规模：([\d.]+)亿元`)
	managementFee      = regexp.MustCompile(`管理费：([\d.]+)%`)
	managerIDPattern   = regexp.MustCompile(`manager=(\w+)`)
	ratingStarPattern  = regexp.MustCompile(`(\d+)star`)
	experiencePattern  = regexp.MustCompile(`从业年限：([\d.]+)年`)
)

// ParsePrice は履歴基準価額ページから最新の1件を抽出します。
//
// テーブルのヘッダー行に続く最初のデータ行を読み、日付（1列目）、単位基準価額
// （2列目）、日次騰落率（4列目）を取り出します。騰落率セルが空の場合は0と
// します。列順の変更を黙って誤読しないよう、ヘッダーの列名を先に検証します。
// テーブル・ヘッダー・データ行のいずれかが欠けている場合は *ParseError を
// 返します。Code は呼び出し元が設定します。
func ParsePrice(html string) (entity.FundPrice, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entity.FundPrice{}, &ParseError{Element: "document"}
	}

	table := doc.Find("table.w782.comm.lsjz").First()
	if table.Length() == 0 {
		return entity.FundPrice{}, &ParseError{Element: "price table (w782 comm lsjz)"}
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		// 1行目はヘッダー。データ行がないページは更新対象外。
		return entity.FundPrice{}, &ParseError{Element: "price data row"}
	}

	header := rows.First().Find("th")
	if header.Length() < 4 ||
		cellText(header.Eq(0)) != "净值日期" ||
		cellText(header.Eq(1)) != "单位净值" ||
		cellText(header.Eq(3)) != "日增长率" {
		return entity.FundPrice{}, &ParseError{Element: "price table header"}
	}

	// 構造上必須なのは日付と価格の2列のみ。増減率の列が欠けている行は
	// 増減率0として扱います。
	cells := rows.Eq(1).Find("td")
	if cells.Length() < 2 {
		return entity.FundPrice{}, &ParseError{Element: "price data cells"}
	}

	date, err := time.Parse("2006-01-02", cellText(cells.Eq(0)))
	if err != nil {
		return entity.FundPrice{}, &ParseError{Element: "price date"}
	}

	price, err := strconv.ParseFloat(cellText(cells.Eq(1)), 64)
	if err != nil || price <= 0 {
		return entity.FundPrice{}, &ParseError{Element: "price value"}
	}

	change := 0.0
	if s := strings.TrimSuffix(cellText(cells.Eq(3)), "%"); s != "" && s != "--" {
		change, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return entity.FundPrice{}, &ParseError{Element: "price change"}
		}
	}

	return entity.FundPrice{Date: date, Price: price, DailyChange: change}, nil
}

// DetailPage は詳細ページの解析結果です。ManagerID が空でない場合、
// 従業年数の抽出のためにマネージャープロフィールページを追加取得できます。
type DetailPage struct {
	Fund      entity.Fund
	ManagerID string
}

// detailRule は詳細ページからフィールドを1つ抽出する独立したルールです。
// マーカーが見つからない、または数値パターンが一致しない場合、そのルールは
// フォールバック値を残すだけで、解析全体を失敗させません。
type detailRule struct {
	name  string
	apply func(doc *goquery.Document, page *DetailPage)
}

var detailRules = []detailRule{
	{name: "name", apply: func(doc *goquery.Document, page *DetailPage) {
		if s := strings.TrimSpace(doc.Find("div.fundDetail-tit").First().Find("div").First().Text()); s != "" {
			page.Fund.Name = s
		}
	}},
	{name: "company", apply: func(doc *goquery.Document, page *DetailPage) {
		if s := strings.TrimSpace(doc.Find(`a[href*="Company"]`).First().Text()); s != "" {
			page.Fund.Company = s
		}
	}},
	{name: "manager", apply: func(doc *goquery.Document, page *DetailPage) {
		link := doc.Find(`a[href*="manager"]`).First()
		if s := strings.TrimSpace(link.Text()); s != "" {
			page.Fund.Manager = s
		}
		if href, ok := link.Attr("href"); ok {
			if m := managerIDPattern.FindStringSubmatch(href); m != nil {
				page.ManagerID = m[1]
			}
		}
	}},
	{name: "established", apply: func(doc *goquery.Document, page *DetailPage) {
		left := doc.Find("div.infoOfFund div.col-left").Text()
		if m := establishedPattern.FindStringSubmatch(left); m != nil {
			if d, err := time.Parse("2006-01-02", m[1]); err == nil {
				page.Fund.EstablishedAt = &d
			}
		}
	}},
	{name: "fund size", apply: func(doc *goquery.Document, page *DetailPage) {
		right := doc.Find("div.infoOfFund div.col-right").Text()
		if m := fundSizePattern.FindStringSubmatch(right); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				page.Fund.FundSize = v
			}
		}
	}},
	{name: "tracking index", apply: func(doc *goquery.Document, page *DetailPage) {
		if s := nextCellText(doc, "div", "跟踪标的"); s != "" {
			page.Fund.TrackingIndex = s
		}
	}},
	{name: "expense ratio", apply: func(doc *goquery.Document, page *DetailPage) {
		table := followingSelection(doc, "div", "基金费率", "table")
		if m := managementFee.FindStringSubmatch(table.Text()); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				page.Fund.ExpenseRatio = v
			}
		}
	}},
}

// ParseDetail は詳細ページから取得できるフィールドをすべて抽出します。
//
// 各フィールドは独立したルールで抽出し、失敗したルールは文書化された
// フォールバック（テキストは"未知"、数値は0、評価は3、日付はnil）を残します。
// トラッキングエラー・評価・従業年数は別ページにあるため、ここでは
// フォールバック値のままです（呼び出し元が補助ページで上書きします）。
func ParseDetail(html string) (DetailPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return DetailPage{}, &ParseError{Element: "document"}
	}

	page := DetailPage{Fund: entity.Fund{
		Name:          entity.UnknownText,
		Type:          entity.DefaultFundType,
		TrackingIndex: entity.UnknownText,
		Company:       entity.UnknownText,
		Manager:       entity.UnknownText,
		Rating:        entity.DefaultRating,
	}}

	for _, rule := range detailRules {
		rule.apply(doc, &page)
	}
	return page, nil
}

// ParseTrackingError はトラッキング指標ページから跟踪误差（%）を抽出します。
// 見つからない場合や "--" の場合は0を返します。
func ParseTrackingError(html string) float64 {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	s := strings.TrimSuffix(nextCellText(doc, "td", "跟踪误差"), "%")
	if s == "" || s == "--" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseRating は評価ページから晨星評級（1〜5つ星）を抽出します。
// 星の数は画像参照の "{n}star" パターンに埋め込まれています。マーカーや
// パターンが見つからない場合、および範囲外の値は既定の3を返します。
func ParseRating(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entity.DefaultRating
	}
	img := followingSelection(doc, "span", "晨星评级", "img")
	src, ok := img.Attr("src")
	if !ok {
		return entity.DefaultRating
	}
	m := ratingStarPattern.FindStringSubmatch(src)
	if m == nil {
		return entity.DefaultRating
	}
	rating, err := strconv.Atoi(m[1])
	if err != nil || rating < 1 || rating > 5 {
		return entity.DefaultRating
	}
	return rating
}

// ParseManagerExperience はマネージャープロフィールページから従業年数を
// 抽出します。見つからない場合は0を返します。
func ParseManagerExperience(html string) float64 {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	var years float64
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := experiencePattern.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			years = v
			return false
		}
		return true
	})
	return years
}

func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// findContaining は marker を含む selector 要素のうち最も内側のものを返します。
// goqueryのFindは文書順（親が先）に走査するため、最後の一致が最内になります。
func findContaining(doc *goquery.Document, selector, marker string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(s.Text(), marker) {
			found = s
		}
	})
	return found
}

// nextCellText は marker を含む要素の「次のtdセル」のテキストを返します。
// ラベルと値が兄弟の場合と、ラベルがセル内にネストしている場合の両方に
// 対応します。見つからない場合は空文字列を返します。
func nextCellText(doc *goquery.Document, selector, marker string) string {
	s := findContaining(doc, selector, marker)
	if s == nil {
		return ""
	}
	cell := s.NextAllFiltered("td").First()
	if cell.Length() == 0 {
		cell = s.Closest("td,th").NextAllFiltered("td").First()
	}
	return strings.TrimSpace(cell.Text())
}

// followingSelection は marker を含む selector 要素の後に現れる followSel 要素を
// 返します。直接の兄弟に見つからない場合は親の子孫から探します。
func followingSelection(doc *goquery.Document, selector, marker, followSel string) *goquery.Selection {
	s := findContaining(doc, selector, marker)
	if s == nil {
		return new(goquery.Selection)
	}
	n := s.NextAllFiltered(followSel).First()
	if n.Length() == 0 {
		n = s.Parent().Find(followSel).First()
	}
	return n
}
