// =============================================================================
// blocks.go - MarkdownからNotionブロックへの変換
// =============================================================================
//
// Markdownを1行ずつNotionのブロックに対応付けます。
//
// 【行の対応表】（トリム後のプレフィックスで判定）
//   "# "   -> heading_1
//   "## "  -> heading_2
//   "### " -> heading_3
//   "- "   -> bulleted_list_item
//   空行    -> ブロックなし
//   その他  -> paragraph
//
// Notionのrich_textは1要素2000文字まで。超える本文は末尾を "..." にして
// 2000文字に収める。
//
// =============================================================================
package report

import (
	"strings"

	"github.com/jomei/notionapi"
)

// blockTextLimit はNotionのrich_text 1要素あたりの文字数上限
const blockTextLimit = 2000

// BuildBlocks はMarkdownをNotionブロック列に変換する。
// ブロック数はMarkdownの非空行数と一致する。
func BuildBlocks(markdown string) []notionapi.Block {
	var blocks []notionapi.Block
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, notionapi.Heading3Block{
				BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
				Heading3:   notionapi.Heading{RichText: blockRichText(strings.TrimPrefix(line, "### "))},
			})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, notionapi.Heading2Block{
				BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
				Heading2:   notionapi.Heading{RichText: blockRichText(strings.TrimPrefix(line, "## "))},
			})
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, notionapi.Heading1Block{
				BasicBlock: basicBlock(notionapi.BlockTypeHeading1),
				Heading1:   notionapi.Heading{RichText: blockRichText(strings.TrimPrefix(line, "# "))},
			})
		case strings.HasPrefix(line, "- "):
			blocks = append(blocks, notionapi.BulletedListItemBlock{
				BasicBlock:       basicBlock(notionapi.BlockTypeBulletedListItem),
				BulletedListItem: notionapi.ListItem{RichText: blockRichText(strings.TrimPrefix(line, "- "))},
			})
		default:
			blocks = append(blocks, notionapi.ParagraphBlock{
				BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
				Paragraph:  notionapi.Paragraph{RichText: blockRichText(line)},
			})
		}
	}
	return blocks
}

func basicBlock(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   t,
	}
}

func blockRichText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: truncateRunes(content, blockTextLimit)}},
	}
}

// truncateRunes は文字列をmaxLen文字に切り詰める。
// 超過時は末尾3文字を "..." に置き換える。マルチバイト文字も正しく扱う。
func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
