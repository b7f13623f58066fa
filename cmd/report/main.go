// =============================================================================
// main.go - 日報パイプラインのローカル実行用CLI
// =============================================================================
//
// Lambdaを経由せずに手元で日報を作成・確認するためのコマンドです。
// シークレットはSSMではなく環境変数（.env可）から読みます。
//
// 使用例:
//
//	# 今日の日報をNotionに作成
//	./report
//
//	# 日付を指定してMarkdownだけ確認（Notionには書き込まない）
//	./report -date 2025-03-14 -dryRun
//
//	# Markdownをファイルに保存
//	./report -dryRun -out report.md
//
// ▼ フラグ一覧
//   -date    対象日（YYYY-MM-DD、省略時は今日）
//   -dryRun  収集と組み立てのみ行い、Markdownを出力して終了
//   -out     Markdownの出力先ファイル（省略時: stdout）
//
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv" // .env ファイル読み込み
	"maki-daily-report/internal/report"
)

func main() {
	// .env ファイルから環境変数を読み込み
	// ファイルが存在しない場合はログを出力するが、処理は続行する
	if err := godotenv.Load(); err != nil {
		warnf(".env file not loaded: %v (using environment variables only)", err)
	}

	date := flag.String("date", "", "target date (YYYY-MM-DD, default: today)")
	dryRun := flag.Bool("dryRun", false, "build the markdown without writing to Notion")
	out := flag.String("out", "", "optional: write markdown to this path (default: stdout)")
	flag.Parse()

	cfg := report.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fatalf("config: %v", err)
	}

	ctx := context.Background()

	w := report.CurrentWindow()
	if *date != "" {
		t, err := time.Parse("2006-01-02", *date)
		if err != nil {
			fatalf("invalid -date %q: %v", *date, err)
		}
		// UTC深夜0時は+09:00では同日の朝9時なのでそのままWindowにできる
		w = report.NewWindow(t)
	}

	p, err := report.BuildPipeline(ctx, cfg, report.EnvResolver{})
	if err != nil {
		fatalf("building pipeline: %v", err)
	}

	if *dryRun {
		md := p.Render(ctx, w)
		if *out != "" {
			if err := os.WriteFile(*out, []byte(md), 0o644); err != nil {
				fatalf("writing %s: %v", *out, err)
			}
			infof("markdown written to %s", *out)
			return
		}
		fmt.Println(md)
		return
	}

	res, err := p.Run(ctx, w)
	if err != nil {
		fatalf("run failed: %v", err)
	}
	infof("✅ %s を作成しました (status %d)", w.Title(), res.StatusCode)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "WARN: "+format+"\n", args...)
}

func infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
