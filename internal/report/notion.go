// =============================================================================
// notion.go - Notionへの日報アップロード
// =============================================================================
//
// 日報ページの作成とブロックの追記を担当します。
//
// 【2段階アップロードの理由】
//   pages.create は children を1リクエスト100ブロックまでしか受け付けない。
//   そのため、最初の100ブロックでページを作成し、残りを100ブロックずつ
//   blocks.children.append で追記する。
//
// 【順序の保証】
//   チャンクは入力順に送るため、ページ上の子ブロック列は入力のブロック列と
//   一致する。追記の途中で失敗した場合はエラーを呼び出し元に返し、
//   作成済みのページはそのまま残す（巻き戻しはしない）。
//
// =============================================================================
package report

import (
	"context"
	"fmt"
	"log"

	"github.com/jomei/notionapi"
)

// notionChunkSize は pages.create / blocks.children.append のchildren上限
const notionChunkSize = 100

// pageCreator / blockAppender はNotion APIの書き込み部分（テスト用に差し替え可）
type pageCreator interface {
	Create(ctx context.Context, request *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

type blockAppender interface {
	AppendChildren(ctx context.Context, id notionapi.BlockID, request *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error)
}

// NotesUploader は日報ページをNotionデータベースに書き込む。
// 対象ページへの書き込みはこのアップローダーだけが行う。
type NotesUploader struct {
	pages  pageCreator
	blocks blockAppender
	dbID   notionapi.DatabaseID
}

// NewNotesUploader はNotesUploaderを作成する
func NewNotesUploader(client *notionapi.Client, databaseID string) (*NotesUploader, error) {
	if databaseID == "" {
		return nil, fmt.Errorf("NOTION_DATABASE_ID is required")
	}
	return &NotesUploader{
		pages:  client.Page,
		blocks: client.Block,
		dbID:   notionapi.DatabaseID(databaseID),
	}, nil
}

// Upload はタイトル付きのページを作成し、全ブロックを順に書き込む。
// ブロックが0個でもページは作成する。
func (u *NotesUploader) Upload(ctx context.Context, title string, blocks []notionapi.Block) error {
	first := blocks
	if len(first) > notionChunkSize {
		first = first[:notionChunkSize]
	}

	page, err := u.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: u.dbID,
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Type: notionapi.PropertyTypeTitle,
				Title: []notionapi.RichText{
					{Text: &notionapi.Text{Content: title}},
				},
			},
		},
		Children: first,
	})
	if err != nil {
		return fmt.Errorf("creating page: %w", err)
	}

	total := len(blocks)
	for lo := notionChunkSize; lo < total; lo += notionChunkSize {
		hi := lo + notionChunkSize
		if hi > total {
			hi = total
		}
		_, err := u.blocks.AppendChildren(ctx, notionapi.BlockID(page.ID), &notionapi.AppendBlockChildrenRequest{
			Children: blocks[lo:hi],
		})
		if err != nil {
			return fmt.Errorf("appending blocks %d-%d: %w", lo+1, hi, err)
		}
		log.Printf("Notion: 追加ブロック %d-%d / %d", lo+1, hi, total)
	}
	return nil
}
