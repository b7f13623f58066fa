// =============================================================================
// calendar.go - Googleカレンダーフェッチャー
// =============================================================================
//
// サービスアカウント認証でGoogleカレンダーAPIを読み取り専用で叩き、
// 対象日の予定を "- {HH:MM} {summary}" の箇条書きにします。
//
// 【カレンダーが複数ある場合】
//   GOOGLE_CALENDAR_IDS はカンマ区切り。1つのカレンダーの取得失敗は
//   ログに出してスキップし、残りのカレンダーの収集は続行する。
//
// 【並び順】
//   全カレンダーの予定をマージしたあと、start.dateTime の生文字列で
//   昇順ソートする。APIが返すdateTimeは同一オフセットの同一書式なので
//   辞書順ソートが時刻順ソートになる。
//
// 終日イベント（dateTimeがなくdateしか持たない予定）は日報に載せない。
//
// =============================================================================
package report

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// calendarEntry は1件の予定（dateTime付きのものだけ）
type calendarEntry struct {
	dateTime string // 例: "2025-03-14T09:00:00+09:00"
	summary  string
}

// listFunc は1つのカレンダーの対象期間の予定を返す（テスト用に差し替え可）
type listFunc func(ctx context.Context, calendarID string, w Window) ([]*calendar.Event, error)

// CalendarFetcher はGoogleカレンダーの予定を取得するフェッチャー
type CalendarFetcher struct {
	CalendarIDs string // カンマ区切り
	credsJSON   []byte
	list        listFunc // nilならサービスアカウントで実APIを叩く
}

// NewCalendarFetcher はCalendarFetcherを作成する
func NewCalendarFetcher(calendarIDs, credentialsJSON string) *CalendarFetcher {
	return &CalendarFetcher{
		CalendarIDs: calendarIDs,
		credsJSON:   []byte(credentialsJSON),
	}
}

// Fetch は対象期間の予定断片を返す。
// 認証などトップレベルの失敗は失敗マーカーのFragmentに畳み込む。
func (f *CalendarFetcher) Fetch(ctx context.Context, w Window) Fragment {
	frag, err := f.fetch(ctx, w)
	if err != nil {
		log.Printf("Calendar: %v", err)
		return failureFragment()
	}
	return frag
}

func (f *CalendarFetcher) fetch(ctx context.Context, w Window) (Fragment, error) {
	list := f.list
	if list == nil {
		svc, err := f.newService(ctx)
		if err != nil {
			return Fragment{}, err
		}
		list = func(ctx context.Context, calendarID string, w Window) ([]*calendar.Event, error) {
			res, err := svc.Events.List(calendarID).
				TimeMin(w.Start.Format(time.RFC3339)).
				TimeMax(w.End.Format(time.RFC3339)).
				SingleEvents(true).
				OrderBy("startTime").
				Context(ctx).
				Do()
			if err != nil {
				return nil, err
			}
			return res.Items, nil
		}
	}

	var entries []calendarEntry
	for _, id := range strings.Split(f.CalendarIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		items, err := list(ctx, id, w)
		if err != nil {
			// このカレンダーだけスキップして続行
			log.Printf("Calendar: %s の取得に失敗: %v", id, err)
			continue
		}
		for _, item := range items {
			if item.Start == nil || item.Start.DateTime == "" {
				continue // 終日イベント
			}
			entries = append(entries, calendarEntry{
				dateTime: item.Start.DateTime,
				summary:  item.Summary,
			})
		}
	}

	return Fragment{
		Text:     formatCalendarEntries(entries),
		Counters: map[string]int{counterEntries: len(entries)},
	}, nil
}

// newService はサービスアカウントJSONから読み取り専用のカレンダークライアントを作る
func (f *CalendarFetcher) newService(ctx context.Context) (*calendar.Service, error) {
	creds, err := google.CredentialsFromJSON(ctx, f.credsJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	svc, err := calendar.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return svc, nil
}

// formatCalendarEntries は予定をdateTime昇順に並べて箇条書きにする
func formatCalendarEntries(entries []calendarEntry) string {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].dateTime < entries[j].dateTime
	})

	var lines []string
	for _, e := range entries {
		hhmm := ""
		if len(e.dateTime) >= 16 {
			hhmm = e.dateTime[11:16]
		}
		lines = append(lines, "- "+hhmm+" "+e.summary)
	}
	if len(lines) == 0 {
		return EmptyText
	}
	return strings.Join(lines, "\n")
}
