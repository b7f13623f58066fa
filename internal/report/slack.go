// =============================================================================
// slack.go - Slack発言フェッチャー
// =============================================================================
//
// search.messages で自分の発言を検索し、チャンネルごとにまとめて
// Markdown断片にします。
//
// 【検索期間を広げている理由】
//   Slackの検索インデックスはオフセットを考慮せずカレンダー日付単位で
//   丸めるため、after/before を対象日ちょうどにすると当日の発言を
//   取りこぼすことがある。前7日・後1日に広げて検索し、後段での
//   絞り込みはしない（古い発言が数件混ざることは許容する）。
//
// 【整形ルール】
//   - チャンネルは初出順、チャンネル内はts昇順
//   - 本文は改行をスペースに置換してトリム
//   - slackTextLimit を超える本文は切り詰めて "..." を付ける
//
// =============================================================================
package report

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
)

const (
	// slackTextLimit は1メッセージあたりの本文上限（文字数）
	slackTextLimit = 300

	// slackMatchLimit は取り込む検索ヒットの上限
	slackMatchLimit = 50

	// 検索期間の拡張幅（日数）。前述のインデックス丸め対策。
	slackWidenBefore = 7
	slackWidenAfter  = 1
)

// slackSearcher は検索APIの呼び出し部分（テスト用に差し替え可）
type slackSearcher interface {
	SearchMessagesContext(ctx context.Context, query string, params slack.SearchParameters) (*slack.SearchMessages, error)
}

// ChatFetcher はSlackの自分の発言を取得するフェッチャー
type ChatFetcher struct {
	UserID string
	api    slackSearcher
}

// NewChatFetcher はChatFetcherを作成する
func NewChatFetcher(token, userID string) *ChatFetcher {
	return &ChatFetcher{
		UserID: userID,
		api:    slack.New(token),
	}
}

// Fetch は対象期間の発言断片を返す。
// エラーはログに出し、失敗マーカーのFragmentに畳み込む。
func (f *ChatFetcher) Fetch(ctx context.Context, w Window) Fragment {
	frag, err := f.fetch(ctx, w)
	if err != nil {
		log.Printf("Slack: %v", err)
		return failureFragment()
	}
	return frag
}

func (f *ChatFetcher) fetch(ctx context.Context, w Window) (Fragment, error) {
	query := fmt.Sprintf("from:<@%s> after:%s before:%s",
		f.UserID,
		w.Start.AddDate(0, 0, -slackWidenBefore).Format("2006-01-02"),
		w.Start.AddDate(0, 0, slackWidenAfter).Format("2006-01-02"),
	)

	params := slack.NewSearchParameters()
	params.Count = slackMatchLimit

	res, err := f.api.SearchMessagesContext(ctx, query, params)
	if err != nil {
		return Fragment{}, fmt.Errorf("search.messages failed: %w", err)
	}

	matches := res.Matches
	if len(matches) > slackMatchLimit {
		matches = matches[:slackMatchLimit]
	}

	// チャンネル初出順にグループ化
	var order []string
	grouped := map[string][]slack.SearchMessage{}
	for _, m := range matches {
		name := m.Channel.Name
		if name == "" {
			name = "unknown"
		}
		if _, ok := grouped[name]; !ok {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], m)
	}

	var lines []string
	emitted := 0
	for _, name := range order {
		msgs := grouped[name]
		sort.SliceStable(msgs, func(i, j int) bool {
			return slackTS(msgs[i].Timestamp) < slackTS(msgs[j].Timestamp)
		})
		lines = append(lines, "", "### "+name)
		for _, m := range msgs {
			lines = append(lines, "- "+formatSlackText(m.Text))
			emitted++
		}
	}

	if len(lines) == 0 {
		return Fragment{
			Text:     EmptyText,
			Counters: map[string]int{counterMatches: 0, counterLines: 0},
		}, nil
	}
	return Fragment{
		Text:     strings.Join(lines, "\n"),
		Counters: map[string]int{counterMatches: len(matches), counterLines: emitted},
	}, nil
}

// slackTS はSlackのts文字列（"1710000000.000100"）を数値にする
func slackTS(ts string) float64 {
	v, _ := strconv.ParseFloat(ts, 64)
	return v
}

// formatSlackText は本文を1行に正規化し、上限を超えたら "..." を付けて切り詰める
func formatSlackText(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	runes := []rune(s)
	if len(runes) > slackTextLimit {
		return string(runes[:slackTextLimit]) + "..."
	}
	return s
}
