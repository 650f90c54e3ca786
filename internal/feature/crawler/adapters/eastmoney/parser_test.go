package eastmoney

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fund_backend/internal/feature/funds/domain/entity"
)

const priceHTML = `<html><body>
<table class="w782 comm lsjz">
  <tr><th>净值日期</th><th>单位净值</th><th>累计净值</th><th>日增长率</th><th>申购状态</th></tr>
  <tr><td>2024-03-01</td><td>1.2340</td><td>3.4560</td><td>0.56%</td><td>开放申购</td></tr>
  <tr><td>2024-02-29</td><td>1.2270</td><td>3.4490</td><td>-0.12%</td><td>开放申购</td></tr>
</table>
</body></html>`

func TestParsePrice(t *testing.T) {
	t.Parallel()

	p, err := ParsePrice(priceHTML)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, 1.234, p.Price)
	assert.Equal(t, 0.56, p.DailyChange)
}

func TestParsePrice_EmptyChangeCell(t *testing.T) {
	t.Parallel()

	html := `<table class="w782 comm lsjz">
  <tr><th>净值日期</th><th>单位净值</th><th>累计净值</th><th>日增长率</th></tr>
  <tr><td>2024-03-04</td><td>1.2500</td><td>3.4700</td><td></td></tr>
</table>`

	p, err := ParsePrice(html)
	require.NoError(t, err)

	assert.Equal(t, 1.25, p.Price)
	assert.Equal(t, 0.0, p.DailyChange, "empty change cell defaults to zero")
}

func TestParsePrice_MissingChangeColumn(t *testing.T) {
	t.Parallel()

	// 日付と価格の2列だけのデータ行。増減率の列自体がなくても解析できる。
	html := `<table class="w782 comm lsjz">
  <tr><th>净值日期</th><th>单位净值</th><th>累计净值</th><th>日增长率</th></tr>
  <tr><td>2024-03-04</td><td>1.2500</td></tr>
</table>`

	p, err := ParsePrice(html)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, 1.25, p.Price)
	assert.Equal(t, 0.0, p.DailyChange, "missing change column defaults to zero")
}

func TestParsePrice_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
	}{
		{
			name: "no price table",
			html: `<html><body><p>系统繁忙</p></body></html>`,
		},
		{
			name: "header row only",
			html: `<table class="w782 comm lsjz">
  <tr><th>净值日期</th><th>单位净值</th><th>累计净值</th><th>日增长率</th></tr>
</table>`,
		},
		{
			name: "reordered header columns",
			html: `<table class="w782 comm lsjz">
  <tr><th>净值日期</th><th>累计净值</th><th>单位净值</th><th>日增长率</th></tr>
  <tr><td>2024-03-01</td><td>3.4560</td><td>1.2340</td><td>0.56%</td></tr>
</table>`,
		},
		{
			name: "malformed price value",
			html: `<table class="w782 comm lsjz">
  <tr><th>净值日期</th><th>单位净值</th><th>累计净值</th><th>日增长率</th></tr>
  <tr><td>2024-03-01</td><td>暂无数据</td><td>3.4560</td><td>0.56%</td></tr>
</table>`,
		},
		{
			name: "malformed date",
			html: `<table class="w782 comm lsjz">
  <tr><th>净值日期</th><th>单位净值</th><th>累计净值</th><th>日增长率</th></tr>
  <tr><td>03/01/2024</td><td>1.2340</td><td>3.4560</td><td>0.56%</td></tr>
</table>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrice(tt.html)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

const detailHTML = `<html><body>
<div class="fundDetail-tit"><div>易方达沪深300ETF联接A</div><span>(110020)</span></div>
<div class="infoOfFund">
  <div class="col-left">基金类型：指数型 | 成立日期：2011-09-20</div>
  <div class="col-right">基金规模：120.50亿元 | 管理人：<a href="http://fund.example.com/Company/80000222.html">易方达基金</a></div>
</div>
<p>基金经理：<a href="http://fund.example.com/gonggao/110020.html?manager=30198373">张坤</a></p>
<table><tr><td><div>跟踪标的</div></td><td>沪深300指数</td></tr></table>
<div>基金费率</div>
<table><tr><td>管理费：0.50%</td><td>托管费：0.10%</td></tr></table>
</body></html>`

func TestParseDetail(t *testing.T) {
	t.Parallel()

	page, err := ParseDetail(detailHTML)
	require.NoError(t, err)

	f := page.Fund
	assert.Equal(t, "易方达沪深300ETF联接A", f.Name)
	assert.Equal(t, entity.DefaultFundType, f.Type)
	assert.Equal(t, "易方达基金", f.Company)
	assert.Equal(t, "张坤", f.Manager)
	assert.Equal(t, "30198373", page.ManagerID)
	assert.Equal(t, "沪深300指数", f.TrackingIndex)
	assert.Equal(t, 120.5, f.FundSize)
	assert.Equal(t, 0.5, f.ExpenseRatio)
	require.NotNil(t, f.EstablishedAt)
	assert.Equal(t, time.Date(2011, 9, 20, 0, 0, 0, 0, time.UTC), *f.EstablishedAt)
	// 評価と跟踪误差・従業年数は別ページなのでフォールバック値のまま
	assert.Equal(t, entity.DefaultRating, f.Rating)
	assert.Equal(t, 0.0, f.TrackingError)
	assert.Equal(t, 0.0, f.ExperienceYears)
}

func TestParseDetail_AllMarkersMissing(t *testing.T) {
	t.Parallel()

	// どのルールも一致しないページ: 全フィールドがフォールバック値になる
	page, err := ParseDetail(`<html><body><p>页面不存在</p></body></html>`)
	require.NoError(t, err)

	f := page.Fund
	assert.Equal(t, entity.UnknownText, f.Name)
	assert.Equal(t, entity.UnknownText, f.Company)
	assert.Equal(t, entity.UnknownText, f.Manager)
	assert.Equal(t, entity.UnknownText, f.TrackingIndex)
	assert.Equal(t, entity.DefaultRating, f.Rating)
	assert.Equal(t, 0.0, f.FundSize)
	assert.Equal(t, 0.0, f.ExpenseRatio)
	assert.Nil(t, f.EstablishedAt)
	assert.Empty(t, page.ManagerID)
}

func TestParseDetail_ManagerWithoutID(t *testing.T) {
	t.Parallel()

	// マネージャー名はあるがIDがリンクに含まれない場合、追加取得は行われない
	html := `<p><a href="http://fund.example.com/manager/list.html">李四</a></p>`
	page, err := ParseDetail(html)
	require.NoError(t, err)

	assert.Equal(t, "李四", page.Fund.Manager)
	assert.Empty(t, page.ManagerID)
}

func TestParseTrackingError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		expected float64
	}{
		{
			name:     "value present",
			html:     `<table><tr><td>跟踪误差</td><td>0.12%</td></tr></table>`,
			expected: 0.12,
		},
		{
			name:     "placeholder dashes",
			html:     `<table><tr><td>跟踪误差</td><td>--</td></tr></table>`,
			expected: 0,
		},
		{
			name:     "marker missing",
			html:     `<table><tr><td>信息比率</td><td>1.05</td></tr></table>`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTrackingError(tt.html))
		})
	}
}

func TestParseRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		expected int
	}{
		{
			name:     "four stars",
			html:     `<div><span>晨星评级：</span><img src="https://img.example.com/4star.png"></div>`,
			expected: 4,
		},
		{
			name:     "marker missing entirely",
			html:     `<div><span>基金评分</span></div>`,
			expected: 3,
		},
		{
			name:     "image without star pattern",
			html:     `<div><span>晨星评级：</span><img src="https://img.example.com/na.png"></div>`,
			expected: 3,
		},
		{
			name:     "out of range value",
			html:     `<div><span>晨星评级：</span><img src="https://img.example.com/9star.png"></div>`,
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseRating(tt.html))
		})
	}
}

func TestParseManagerExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		expected float64
	}{
		{
			name:     "value present",
			html:     `<div><span>从业年限：8.5年</span></div>`,
			expected: 8.5,
		},
		{
			name:     "marker missing",
			html:     `<div><span>任职起始：2015-06-01</span></div>`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseManagerExperience(tt.html))
		})
	}
}
