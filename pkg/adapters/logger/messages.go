package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Codec selection
		"Attempting to allocate codec '%s'":       "コーデック '%s' の割り当てを試行中",
		"Allocated codec '%s'":                    "コーデック '%s' を割り当てました",
		"Failed to configure codec '%s': %s":      "コーデック '%s' の設定に失敗しました: %s",
		"No matching decoder for media type %s":   "メディアタイプ %s に一致するデコーダがありません",

		// Pump activity (debug)
		"No output buffer yet, retry count: %d": "出力バッファ待ち。リトライ回数: %d",
		"Output buffers changed":                "出力バッファが変更されました",

		// Warnings
		"Could not get input buffer #%d":               "入力バッファ #%d を取得できませんでした",
		"Could not get output buffer #%d":              "出力バッファ #%d を取得できませんでした",
		"Failed to queue input EOS: %s":                "入力EOSのキューに失敗しました: %s",
		"Failed to queue input buffer #%d: %s":         "入力バッファ #%d のキューに失敗しました: %s",
		"Received %d input bytes for buffer of size %d": "サイズ %[2]d のバッファに %[1]d バイトの入力を受信しました",

		// Decode run (CLI)
		"Decoding %s":                      "%s をデコード中",
		"Decoded %d units in %d ms":        "%d ユニットを %d ms でデコードしました",
		"Format: %s %dx%d":                 "フォーマット: %s %dx%d",
		"Format changed to %s %dx%d":       "フォーマットが %s %dx%d に変更されました",
		"Output saved to %s":               "出力を %s に保存しました",
		"Interrupted, shutting down...":    "中断されました。シャットダウン中...",

		// Errors
		"Failed to open input: %s":   "入力のオープンに失敗しました: %s",
		"Failed to write output: %s": "出力の書き込みに失敗しました: %s",
		"Decode failed: %s":          "デコードに失敗しました: %s",
	})
}
