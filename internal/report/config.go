// =============================================================================
// config.go - 環境変数設定
// =============================================================================
//
// 環境変数:
//   - GITHUB_USERNAME:         GitHubユーザー名 (必須)
//   - SLACK_USER_ID:           SlackユーザーID (必須)
//   - GOOGLE_CALENDAR_IDS:     カレンダーID（カンマ区切り、必須）
//   - NOTION_DATABASE_ID:      日報を作成するNotionデータベースID (必須)
//   - NOTION_BOKI_DATABASE_ID: 学習ログ（簿記）データベースID (任意)
//   - EMAIL_FROM:              エラー通知メール送信元 (任意)
//   - EMAIL_PASSWORD:          Gmailアプリパスワード (任意)
//   - EMAIL_TO:                エラー通知メール送信先 (任意)
//
// =============================================================================
package report

import (
	"fmt"
	"os"
)

// Config は環境変数から読み込む設定
type Config struct {
	GitHubUsername   string
	SlackUserID      string
	CalendarIDs      string // カンマ区切り
	NotionDatabaseID string
	BokiDatabaseID   string // 空なら学習セクションは出力しない
	EmailFrom        string // エラー通知用（任意）
	EmailPassword    string // エラー通知用（任意）
	EmailTo          string // エラー通知用（任意）
}

// LoadConfig は環境変数から設定を読み込む
func LoadConfig() Config {
	return Config{
		GitHubUsername:   os.Getenv("GITHUB_USERNAME"),
		SlackUserID:      os.Getenv("SLACK_USER_ID"),
		CalendarIDs:      os.Getenv("GOOGLE_CALENDAR_IDS"),
		NotionDatabaseID: os.Getenv("NOTION_DATABASE_ID"),
		BokiDatabaseID:   os.Getenv("NOTION_BOKI_DATABASE_ID"),
		EmailFrom:        os.Getenv("EMAIL_FROM"),
		EmailPassword:    os.Getenv("EMAIL_PASSWORD"),
		EmailTo:          os.Getenv("EMAIL_TO"),
	}
}

// Validate は必須の環境変数が揃っているか検証する
func (c Config) Validate() error {
	if c.GitHubUsername == "" {
		return fmt.Errorf("GITHUB_USERNAME is required")
	}
	if c.SlackUserID == "" {
		return fmt.Errorf("SLACK_USER_ID is required")
	}
	if c.CalendarIDs == "" {
		return fmt.Errorf("GOOGLE_CALENDAR_IDS is required")
	}
	if c.NotionDatabaseID == "" {
		return fmt.Errorf("NOTION_DATABASE_ID is required")
	}
	return nil
}

// notifyEnabled はエラー通知メールの環境変数が揃っているかを返す
func (c Config) notifyEnabled() bool {
	return c.EmailFrom != "" && c.EmailPassword != "" && c.EmailTo != ""
}
