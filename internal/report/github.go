// =============================================================================
// github.go - GitHub活動フェッチャー
// =============================================================================
//
// GitHubのパブリックイベントAPI（GET /users/{user}/events）から対象日の
// Push/Pull Requestを拾い、箇条書きの断片にします。
//
// 【変換ルール】
//   - PushEvent:        payload.commits の各コミットを "- Commit: {message}"
//   - PullRequestEvent: タイトルが空でなければ "- PR: {title}"
//   - その他のイベント種別は無視
//
// 失敗はこのフェッチャー内に閉じ込める。HTTPエラーやボディ不正で日報全体を
// 落とさず、セクション本文を失敗マーカーにして続行する。
//
// =============================================================================
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// githubTimeout はイベント取得の受信期限
const githubTimeout = 15 * time.Second

const githubBaseURL = "https://api.github.com"

// githubEvent はイベントAPIのレスポンス1件分
// 必要なフィールドだけをデコードする
type githubEvent struct {
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"` // RFC3339（末尾Z）
	Payload   struct {
		Commits []struct {
			Message string `json:"message"`
		} `json:"commits"`
		PullRequest struct {
			Title string `json:"title"`
		} `json:"pull_request"`
	} `json:"payload"`
}

// CommitsFetcher はGitHubイベントを取得するフェッチャー
type CommitsFetcher struct {
	Username string
	Token    string
	BaseURL  string       // テスト用に差し替え可。空ならGitHub API
	Client   *http.Client // テスト用に差し替え可
}

// NewCommitsFetcher はCommitsFetcherを作成する
func NewCommitsFetcher(username, token string) *CommitsFetcher {
	return &CommitsFetcher{
		Username: username,
		Token:    token,
		Client:   &http.Client{Timeout: githubTimeout},
	}
}

// Fetch は対象期間のコミット・PR断片を返す。
// エラーはログに出し、失敗マーカーのFragmentに畳み込む。
func (f *CommitsFetcher) Fetch(ctx context.Context, w Window) Fragment {
	frag, err := f.fetch(ctx, w)
	if err != nil {
		log.Printf("GitHub: %v", err)
		return failureFragment()
	}
	return frag
}

func (f *CommitsFetcher) fetch(ctx context.Context, w Window) (Fragment, error) {
	base := f.BaseURL
	if base == "" {
		base = githubBaseURL
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: githubTimeout}
	}

	url := fmt.Sprintf("%s/users/%s/events", base, f.Username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Fragment{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.Token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return Fragment{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Fragment{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fragment{}, fmt.Errorf("reading body: %w", err)
	}

	// レート制限などではオブジェクトが返る。配列でないボディは
	// 「イベントなし」として扱い、エラーにはしない。
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Fragment{
			Text:     EmptyText,
			Counters: map[string]int{counterEvents: 0, counterLines: 0},
		}, nil
	}

	var events []githubEvent
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return Fragment{}, fmt.Errorf("decoding events: %w", err)
	}

	var lines []string
	matched := 0
	for _, e := range events {
		created, err := time.Parse(time.RFC3339, e.CreatedAt)
		if err != nil {
			continue
		}
		created = created.In(jst)
		// 両端を含む
		if created.Before(w.Start) || created.After(w.End) {
			continue
		}
		switch e.Type {
		case "PushEvent":
			matched++
			for _, c := range e.Payload.Commits {
				lines = append(lines, "- Commit: "+c.Message)
			}
		case "PullRequestEvent":
			matched++
			if e.Payload.PullRequest.Title != "" {
				lines = append(lines, "- PR: "+e.Payload.PullRequest.Title)
			}
		}
	}

	text := strings.Join(lines, "\n")
	if text == "" {
		text = EmptyText
	}
	return Fragment{
		Text:     text,
		Counters: map[string]int{counterEvents: matched, counterLines: len(lines)},
	}, nil
}
