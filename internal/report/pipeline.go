// =============================================================================
// pipeline.go - 日報パイプラインの制御フロー
// =============================================================================
//
// 【処理の流れ】
//
//   ┌─────────────┐    ┌─────────────┐    ┌─────────────┐
//   │  1. 収集    │ -> │  2. 組み立て │ -> │  3. 保存    │
//   │  4ソース    │    │  Markdown   │    │  Notion     │
//   └─────────────┘    └─────────────┘    └─────────────┘
//
// 収集は GitHub → Calendar → Slack → 学習ログ の固定順。各フェッチャーは
// 自分の失敗を自分の中に閉じ込めるので、収集フェーズでパイプラインが
// 落ちることはない。致命的なのはシークレット解決・クライアント初期化・
// Notionへの書き込みだけ。
//
// 成功時は "Metrics:"、失敗時は "FailureMetrics:" のカウンター行を1行出す。
//
// =============================================================================
package report

import (
	"context"
	"fmt"
	"log"

	"github.com/jomei/notionapi"
)

// Fetcher は1つのソースから断片を取得する
type Fetcher interface {
	Fetch(ctx context.Context, w Window) Fragment
}

// Uploader は組み立てた日報をNotionに書き込む
type Uploader interface {
	Upload(ctx context.Context, title string, blocks []notionapi.Block) error
}

// FailureNotifier は取得失敗を通知する（任意）
type FailureNotifier interface {
	NotifyFetchFailures(dateLabel string, sources []string)
}

// Pipeline は日報作成の全段を束ねる
type Pipeline struct {
	Commits  Fetcher
	Calendar Fetcher
	Chat     Fetcher
	StudyLog Fetcher
	Uploader Uploader
	Notifier FailureNotifier // nilなら通知しない
}

// BuildPipeline はシークレットを解決し、全クライアントを初期化して
// Pipelineを組み立てる。シークレットが1つでも引けなければエラー。
func BuildPipeline(ctx context.Context, cfg Config, secrets Resolver) (*Pipeline, error) {
	githubToken, err := secrets.Resolve(ctx, SecretGitHubToken)
	if err != nil {
		return nil, err
	}
	slackToken, err := secrets.Resolve(ctx, SecretSlackToken)
	if err != nil {
		return nil, err
	}
	notionToken, err := secrets.Resolve(ctx, SecretNotionToken)
	if err != nil {
		return nil, err
	}
	googleJSON, err := secrets.Resolve(ctx, SecretGoogleCredentials)
	if err != nil {
		return nil, err
	}

	notionClient := notionapi.NewClient(notionapi.Token(notionToken))
	uploader, err := NewNotesUploader(notionClient, cfg.NotionDatabaseID)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Commits:  NewCommitsFetcher(cfg.GitHubUsername, githubToken),
		Calendar: NewCalendarFetcher(cfg.CalendarIDs, googleJSON),
		Chat:     NewChatFetcher(slackToken, cfg.SlackUserID),
		StudyLog: NewStudyLogFetcher(notionClient, cfg.BokiDatabaseID),
		Uploader: uploader,
	}

	if cfg.notifyEnabled() {
		notifier, err := NewMailNotifier(cfg.EmailFrom, cfg.EmailPassword, cfg.EmailTo)
		if err != nil {
			log.Printf("Notify: disabled: %v", err)
		} else {
			p.Notifier = notifier
		}
	}
	return p, nil
}

// reportData は収集・組み立ての中間結果
type reportData struct {
	commits  Fragment
	calendar Fragment
	chat     Fragment
	study    Fragment
	markdown string
	blocks   []notionapi.Block
}

// collect は4ソースを固定順で取得し、Markdownとブロック列まで組み立てる
func (p *Pipeline) collect(ctx context.Context, w Window) reportData {
	d := reportData{
		commits:  p.Commits.Fetch(ctx, w),
		calendar: p.Calendar.Fetch(ctx, w),
		chat:     p.Chat.Fetch(ctx, w),
		study:    p.StudyLog.Fetch(ctx, w),
	}
	d.markdown = BuildMarkdown(w.DateLabel, d.commits.Text, d.calendar.Text, d.chat.Text, d.study.Text)
	d.blocks = BuildBlocks(d.markdown)
	return d
}

// failedSources は失敗マーカーに落ちたソース名を返す
func (d reportData) failedSources() []string {
	var failed []string
	if d.commits.Text == FailureText {
		failed = append(failed, "GitHub")
	}
	if d.calendar.Text == FailureText {
		failed = append(failed, "Google Calendar")
	}
	if d.chat.Text == FailureText {
		failed = append(failed, "Slack")
	}
	return failed
}

// metricsLine はメトリクスログ1行分のカウンター部を整形する
func (d reportData) metricsLine() string {
	return fmt.Sprintf("github_events=%d, github_lines=%d, slack_matches=%d, notion_blocks=%d",
		d.commits.Counters[counterEvents],
		d.commits.Counters[counterLines],
		d.chat.Counters[counterMatches],
		len(d.blocks),
	)
}

// Run は日報を1回分作成する。
// 成功時は {200, "OK"} を返し、Notionへの書き込み失敗はエラーとして返す。
func (p *Pipeline) Run(ctx context.Context, w Window) (Result, error) {
	d := p.collect(ctx, w)

	if failed := d.failedSources(); len(failed) > 0 && p.Notifier != nil {
		p.Notifier.NotifyFetchFailures(w.DateLabel, failed)
	}

	if err := p.Uploader.Upload(ctx, w.Title(), d.blocks); err != nil {
		log.Printf("FailureMetrics: %s", d.metricsLine())
		return Result{}, err
	}

	log.Printf("Metrics: %s", d.metricsLine())
	return Result{StatusCode: 200, Body: "OK"}, nil
}

// Render は収集と組み立てだけ行い、Markdownを返す（CLIのdry-run用）
func (p *Pipeline) Render(ctx context.Context, w Window) string {
	return p.collect(ctx, w).markdown
}
