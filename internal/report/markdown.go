// =============================================================================
// markdown.go - 日報Markdownの組み立て
// =============================================================================
//
// 各フェッチャーの断片を固定の見出し・固定の順序で1つのMarkdownにします。
// セクション間は空行1つで区切る。学習セクションは断片が空なら出力しない。
// 最後の「今日の学び」は手書き用のプレースホルダーで本文を持たない。
//
// =============================================================================
package report

import "strings"

// BuildMarkdown は日報Markdown全体を組み立てる
func BuildMarkdown(dateLabel, commits, calendar, chat, study string) string {
	sections := []string{
		"# " + dateLabel + " 日報",
		"## 🛠 実装・作業（GitHub Public）\n" + commits,
		"## 🗓 時間の使い方（Calendar）\n" + calendar,
		"## 💬 思考・議論（Slack）\n" + chat,
	}
	if study != "" {
		sections = append(sections, "## 📚 学習（簿記3級）\n"+study)
	}
	sections = append(sections, "## 🧠 今日の学び（手書き1行）")
	return strings.Join(sections, "\n\n")
}
