// Package main provides localization for the framepull CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Pull decoded frames out of MP4 files one read at a time": "MP4ファイルからデコード済みフレームを1リードずつ取り出します",

		// Decode command
		"Decode a fragmented MP4 and drain the units to a sink": "フラグメント化MP4をデコードし、ユニットをシンクへ出力",
		"YAML configuration file":                               "YAML設定ファイル",
		"Raw output file path (omit to discard)":                "生出力ファイルパス（省略時は破棄）",
		"Preferred codec component name":                        "優先するコーデックコンポーネント名",
		"Seek to this position before the first read":           "最初のリード前にこの位置へシーク",
		"Render units to a canvas surface instead of copying them out": "ユニットをコピーせずキャンバスサーフェスへレンダリング",
		"Wait for a free input buffer in milliseconds":          "空き入力バッファの待機時間（ミリ秒）",
		"Wait for a decoded buffer in milliseconds":             "デコード済みバッファの待機時間（ミリ秒）",
		"Feed/drain iterations per read":                        "リードあたりのフィード/ドレイン反復回数",
		"Log level (debug, info, warn, error, quiet)":           "ログレベル (debug, info, warn, error, quiet)",

		// Probe command
		"Print the negotiated output format of an MP4 file": "MP4ファイルのネゴシエート済み出力フォーマットを表示",
	})
}
