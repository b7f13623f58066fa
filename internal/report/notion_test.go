package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/jomei/notionapi"
)

type fakePages struct {
	req *notionapi.PageCreateRequest
	err error
}

func (f *fakePages) Create(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &notionapi.Page{ID: "page-1"}, nil
}

type fakeBlocks struct {
	ids  []notionapi.BlockID
	reqs []*notionapi.AppendBlockChildrenRequest
	err  error
}

func (f *fakeBlocks) AppendChildren(_ context.Context, id notionapi.BlockID, req *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error) {
	f.ids = append(f.ids, id)
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &notionapi.AppendBlockChildrenResponse{}, nil
}

func makeBlocks(n int) []notionapi.Block {
	var lines []string
	for i := 1; i <= n; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	return BuildBlocks(strings.Join(lines, "\n"))
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestNotesUploader_SingleChunk(t *testing.T) {
	pages := &fakePages{}
	blocks := &fakeBlocks{}
	u := &NotesUploader{pages: pages, blocks: blocks, dbID: "db-1"}

	if err := u.Upload(context.Background(), "2025-03-14 日報", makeBlocks(9)); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if pages.req == nil {
		t.Fatal("pages.create was not called")
	}
	if got := len(pages.req.Children); got != 9 {
		t.Errorf("create children = %d, want 9", got)
	}
	if pages.req.Parent.DatabaseID != "db-1" {
		t.Errorf("parent database = %q, want db-1", pages.req.Parent.DatabaseID)
	}
	title := pages.req.Properties["title"].(notionapi.TitleProperty)
	if got := title.Title[0].Text.Content; got != "2025-03-14 日報" {
		t.Errorf("title = %q, want %q", got, "2025-03-14 日報")
	}
	if len(blocks.reqs) != 0 {
		t.Errorf("append calls = %d, want 0", len(blocks.reqs))
	}
}

func TestNotesUploader_ChunksPreserveOrder(t *testing.T) {
	buf := captureLog(t)
	pages := &fakePages{}
	appender := &fakeBlocks{}
	u := &NotesUploader{pages: pages, blocks: appender, dbID: "db-1"}

	all := makeBlocks(250)
	if err := u.Upload(context.Background(), "2025-03-14 日報", all); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// 1回の作成 + 2回の追記
	if len(pages.req.Children) != 100 {
		t.Errorf("create children = %d, want 100", len(pages.req.Children))
	}
	if len(appender.reqs) != 2 {
		t.Fatalf("append calls = %d, want 2", len(appender.reqs))
	}
	if got := len(appender.reqs[0].Children); got != 100 {
		t.Errorf("first append = %d blocks, want 100", got)
	}
	if got := len(appender.reqs[1].Children); got != 50 {
		t.Errorf("second append = %d blocks, want 50", got)
	}
	for _, id := range appender.ids {
		if id != "page-1" {
			t.Errorf("append page id = %q, want page-1", id)
		}
	}

	// 結合順は入力順と一致する
	var uploaded []notionapi.Block
	uploaded = append(uploaded, pages.req.Children...)
	for _, req := range appender.reqs {
		uploaded = append(uploaded, req.Children...)
	}
	if len(uploaded) != len(all) {
		t.Fatalf("uploaded = %d blocks, want %d", len(uploaded), len(all))
	}
	for i := range all {
		_, wantText := blockText(t, all[i])
		_, gotText := blockText(t, uploaded[i])
		if gotText != wantText {
			t.Fatalf("block %d = %q, want %q", i, gotText, wantText)
		}
	}

	logged := buf.String()
	if !strings.Contains(logged, "Notion: 追加ブロック 101-200 / 250") {
		t.Errorf("missing progress log for first append, got: %s", logged)
	}
	if !strings.Contains(logged, "Notion: 追加ブロック 201-250 / 250") {
		t.Errorf("missing progress log for second append, got: %s", logged)
	}
}

func TestNotesUploader_EmptyBlocksStillCreatesPage(t *testing.T) {
	pages := &fakePages{}
	appender := &fakeBlocks{}
	u := &NotesUploader{pages: pages, blocks: appender, dbID: "db-1"}

	if err := u.Upload(context.Background(), "2025-03-14 日報", nil); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if pages.req == nil {
		t.Fatal("pages.create was not called")
	}
	if len(pages.req.Children) != 0 {
		t.Errorf("create children = %d, want 0", len(pages.req.Children))
	}
	if len(appender.reqs) != 0 {
		t.Errorf("append calls = %d, want 0", len(appender.reqs))
	}
}

func TestNotesUploader_AppendFailurePropagates(t *testing.T) {
	captureLog(t)
	pages := &fakePages{}
	appender := &fakeBlocks{err: errors.New("rate limited")}
	u := &NotesUploader{pages: pages, blocks: appender, dbID: "db-1"}

	err := u.Upload(context.Background(), "2025-03-14 日報", makeBlocks(150))
	if err == nil {
		t.Fatal("want error from failing append")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want wrapped append error", err)
	}
}

func TestNewNotesUploader_RequiresDatabaseID(t *testing.T) {
	client := notionapi.NewClient(notionapi.Token("secret"))
	if _, err := NewNotesUploader(client, ""); err == nil {
		t.Fatal("want error for empty database id")
	}
}
