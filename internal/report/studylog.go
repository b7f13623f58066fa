// =============================================================================
// studylog.go - 学習ログ（簿記）フェッチャー
// =============================================================================
//
// 学習ログ用のNotionデータベースから、対象日に作成された最新1件を取得して
// 学習セクションの断片にします。
//
// 【他のフェッチャーとの違い】
//   このセクションは任意。NOTION_BOKI_DATABASE_ID が未設定なら何もせず、
//   取得に失敗しても失敗マーカーではなく空文字列を返して
//   セクションごと静かに省略する。
//
// 【Notion側のプロパティ】
//   プロパティ名は日本語の設定値として扱う（識別子ではない）。
//   デフォルト: 作成日時 / 時間(m) / やったこと / 理解したこと
//
// =============================================================================
package report

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jomei/notionapi"
)

// StudyLogProps は学習ログDBのプロパティ名
type StudyLogProps struct {
	Created string // 作成日時（created_time）
	Minutes string // 学習時間（number、分）
	Title   string // やったこと（title）
	Memo    string // 理解したこと（rich_text）
}

// DefaultStudyLogProps は既定のプロパティ名
var DefaultStudyLogProps = StudyLogProps{
	Created: "作成日時",
	Minutes: "時間(m)",
	Title:   "やったこと",
	Memo:    "理解したこと",
}

// databaseQuerier はNotionデータベースのクエリ部分（テスト用に差し替え可）
type databaseQuerier interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// StudyLogFetcher は学習ログの最新1件を取得するフェッチャー
type StudyLogFetcher struct {
	DatabaseID string // 空ならセクションごと省略
	Props      StudyLogProps
	db         databaseQuerier
}

// NewStudyLogFetcher はStudyLogFetcherを作成する
func NewStudyLogFetcher(client *notionapi.Client, databaseID string) *StudyLogFetcher {
	return &StudyLogFetcher{
		DatabaseID: databaseID,
		Props:      DefaultStudyLogProps,
		db:         client.Database,
	}
}

// Fetch は学習ログ断片を返す。
// DB未設定・取得失敗のどちらも空のFragmentにする（任意セクション）。
func (f *StudyLogFetcher) Fetch(ctx context.Context, w Window) Fragment {
	if f.DatabaseID == "" {
		return Fragment{}
	}
	frag, err := f.fetch(ctx, w)
	if err != nil {
		log.Printf("StudyLog: %v", err)
		return Fragment{}
	}
	return frag
}

func (f *StudyLogFetcher) fetch(ctx context.Context, w Window) (Fragment, error) {
	start := notionapi.Date(w.Start)
	end := notionapi.Date(w.End)
	zero := float64(0)

	req := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.AndCompoundFilter{
			notionapi.PropertyFilter{
				Property: f.Props.Created,
				Date:     &notionapi.DateFilterCondition{OnOrAfter: &start},
			},
			notionapi.PropertyFilter{
				Property: f.Props.Created,
				Date:     &notionapi.DateFilterCondition{OnOrBefore: &end},
			},
			notionapi.PropertyFilter{
				Property: f.Props.Minutes,
				Number:   &notionapi.NumberFilterCondition{GreaterThan: &zero},
			},
		},
		Sorts: []notionapi.SortObject{
			{Property: f.Props.Created, Direction: notionapi.SortOrderDESC},
		},
		PageSize: 1,
	}

	res, err := f.db.Query(ctx, notionapi.DatabaseID(f.DatabaseID), req)
	if err != nil {
		return Fragment{}, fmt.Errorf("querying study log: %w", err)
	}
	if res == nil || len(res.Results) == 0 {
		return Fragment{}, nil
	}

	page := res.Results[0]
	title := ""
	if tp, ok := page.Properties[f.Props.Title].(*notionapi.TitleProperty); ok {
		title = richTextPlain(tp.Title)
	}
	memo := ""
	if rp, ok := page.Properties[f.Props.Memo].(*notionapi.RichTextProperty); ok {
		memo = richTextPlain(rp.RichText)
	}
	minutes := 0
	if np, ok := page.Properties[f.Props.Minutes].(*notionapi.NumberProperty); ok {
		minutes = int(np.Number)
	}

	lines := []string{fmt.Sprintf("- %s（%d分）", title, minutes)}
	if memo != "" {
		lines = append(lines, "- 理解したこと："+memo)
	}
	return Fragment{
		Text:     strings.Join(lines, "\n"),
		Counters: map[string]int{counterEntries: 1},
	}, nil
}

// richTextPlain はリッチテキスト配列をプレーンテキストに連結する
func richTextPlain(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
			continue
		}
		if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return strings.TrimSpace(b.String())
}
