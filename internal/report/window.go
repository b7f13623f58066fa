// =============================================================================
// window.go - 日報の対象期間（Window）
// =============================================================================
//
// 日報の対象となる「1日」を固定オフセット（+09:00）で計算します。
//
// 【重要】Windowは必ず呼び出しごとに計算すること。
// パッケージ変数として持つと、ウォームスタートしたLambdaが前日の日付で
// 日報を作ってしまう。
//
// =============================================================================
package report

import "time"

// jst は日本標準時（+09:00 固定オフセット）
var jst = time.FixedZone("JST", 9*60*60)

// Window は日報の対象期間。対象日の 00:00:00 から 23:59:59 まで（両端含む）。
type Window struct {
	DateLabel string    // 対象日（ISO形式、例: "2025-03-14"）
	Start     time.Time // 対象日の 00:00:00 (+09:00)
	End       time.Time // 対象日の 23:59:59 (+09:00)
}

// NewWindow は指定時刻を含む+09:00の1日をWindowにして返す。
// 常に Start <= now <= End が成り立つ。
func NewWindow(now time.Time) Window {
	now = now.In(jst)
	y, m, d := now.Date()
	return Window{
		DateLabel: now.Format("2006-01-02"),
		Start:     time.Date(y, m, d, 0, 0, 0, 0, jst),
		End:       time.Date(y, m, d, 23, 59, 59, 0, jst),
	}
}

// CurrentWindow は現在時刻のWindowを返す
func CurrentWindow() Window {
	return NewWindow(time.Now())
}

// Title は作成するNotionページのタイトル（"{対象日} 日報"）を返す
func (w Window) Title() string {
	return w.DateLabel + " 日報"
}
