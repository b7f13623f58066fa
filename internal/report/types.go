// =============================================================================
// types.go - データ構造定義
// =============================================================================
//
// このファイルは日報パイプライン全体で使用するデータ構造（型）を定義します。
//
// 【このファイルで定義している型】
//   - Fragment: 各フェッチャーが返すMarkdown断片とカウンター
//   - Result:   Lambda/CLIの完了レコード
//
// =============================================================================
package report

// FailureText はフェッチャーが失敗したときにセクション本文として使う固定文字列。
// 失敗は該当ソースのセクション内に閉じ込め、日報自体は必ず作成する。
const FailureText = "⚠️ 取得エラー（ログ参照）"

// EmptyText は対象期間にデータが1件もなかったセクションの本文。
const EmptyText = "なし"

// Fragment は1つのフェッチャーの出力。
//
// Text はそのままMarkdownのセクション本文になる断片（空文字列ならセクション
// ごと省略される）。Counters はメトリクスログ1行のためだけに使う整数カウンター。
//
// 戻り値の形をフェッチャーごとに変えず、全フェッチャーがこの1つの型に揃える。
type Fragment struct {
	Text     string
	Counters map[string]int
}

// Fragment.Counters のキー
const (
	counterEvents  = "events"  // GitHub: 対象期間にマッチしたイベント数
	counterLines   = "lines"   // 出力した行数
	counterMatches = "matches" // Slack: 検索ヒット数（上限適用後）
	counterEntries = "entries" // Calendar/StudyLog: 件数
)

// failureFragment は失敗マーカーとゼロカウンターのFragmentを返す
func failureFragment() Fragment {
	return Fragment{Text: FailureText, Counters: map[string]int{}}
}

// Result はパイプラインの完了レコード。
// Lambdaハンドラーの戻り値としてそのままJSON化される。
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}
