// =============================================================================
// Lambda: daily-report
// =============================================================================
//
// GitHub・Googleカレンダー・Slack・学習ログを集約し、Notionデータベースに
// 1日1ページの日報を作成するLambda関数。EventBridgeのスケジュールで
// 1日1回起動される想定。
//
// 環境変数:
//   - GITHUB_USERNAME:         GitHubユーザー名 (必須)
//   - SLACK_USER_ID:           SlackユーザーID (必須)
//   - GOOGLE_CALENDAR_IDS:     カレンダーID（カンマ区切り、必須）
//   - NOTION_DATABASE_ID:      日報データベースID (必須)
//   - NOTION_BOKI_DATABASE_ID: 学習ログデータベースID (任意)
//   - EMAIL_FROM / EMAIL_PASSWORD / EMAIL_TO: エラー通知メール (任意)
//
// APIトークンはSSMパラメータストア（/maki-daily-report/ 配下）から取得する。
//
// =============================================================================
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"maki-daily-report/internal/report"
)

// Handler はLambdaのメインハンドラー
func Handler(ctx context.Context, event interface{}) (report.Result, error) {
	log.Println("Starting daily-report Lambda...")

	// 1. 環境変数から設定を読み込む
	cfg := report.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Printf("Config error: %v", err)
		return report.Result{}, err
	}

	// 2. シークレットを解決してパイプラインを初期化
	resolver, err := report.NewSSMResolver(ctx)
	if err != nil {
		log.Printf("Error creating SSM resolver: %v", err)
		log.Printf("FailureMetrics: github_events=0, github_lines=0, slack_matches=0, notion_blocks=0")
		return report.Result{}, err
	}

	p, err := report.BuildPipeline(ctx, cfg, resolver)
	if err != nil {
		log.Printf("Error building pipeline: %v", err)
		log.Printf("FailureMetrics: github_events=0, github_lines=0, slack_matches=0, notion_blocks=0")
		return report.Result{}, err
	}

	// 3. 実行（Windowは必ず呼び出しごとに計算する）
	return p.Run(ctx, report.CurrentWindow())
}

func main() {
	lambda.Start(Handler)
}
