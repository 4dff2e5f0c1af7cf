// Package main provides localization for the qrstyle CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":            "入力",
		"Encoding":         "エンコード",
		"Layout and Style": "レイアウトとスタイル",
		"Background":       "背景",
		"Logo":             "ロゴ",
		"Eyes":             "ファインダー",
		"Output":           "出力先",
		"Debug":            "デバッグ",
		"Logging":          "ログ",

		// Root command
		"Render stylized QR codes": "装飾付きQRコードを描画",
		"qrstyle renders QR codes with styled modules, eyes, backgrounds and logos.": "qrstyleはモジュール、ファインダー、背景、ロゴを装飾したQRコードを描画します。",

		// Commands
		"Render one QR code to an image file": "QRコードを1つ画像ファイルに描画",
		"Render many QR codes in parallel":    "複数のQRコードを並列に描画",
		"Show version information":            "バージョン情報を表示",
		"qrstyle version %s":                  "qrstyle バージョン %s",

		// Input flags
		"YAML config file":            "YAML設定ファイル",
		"File with one text per line": "1行に1テキストを記載したファイル",

		// Encoding flags
		"Style profile (classic, vector, awesome)": "スタイルプロファイル（classic, vector, awesome）",
		"QR engine (yeqown, skip2, rsc)":           "QRエンジン（yeqown, skip2, rsc）",
		"Error correction level (L, M, Q, H)":      "誤り訂正レベル（L, M, Q, H）",

		// Layout and style flags
		"Output side in pixels":                     "出力画像の一辺（ピクセル）",
		"Quiet zone in pixels":                      "クワイエットゾーン（ピクセル）",
		"Outer corner radius in pixels":             "外側の角丸半径（ピクセル）",
		"Module dot scale in (0, 1]":                "モジュールのドット倍率（0より大きく1以下）",
		"Module shape (square, circle)":             "モジュールの形状（square, circle）",
		"Dark module color (hex, e.g., #000000)":    "暗モジュールの色（16進数、例: #000000）",
		"Light module color (hex, e.g., #ffffff)":   "明モジュールの色（16進数、例: #ffffff）",
		"Finder eye color (hex)":                    "ファインダーの色（16進数）",
		"Background color (hex or transparent)":     "背景色（16進数または transparent）",
		"Gradient stop as OFFSET:COLOR, repeatable": "グラデーションの停止点 OFFSET:COLOR（複数指定可）",

		// Background flags
		"Background image file":                         "背景画像ファイル",
		"Take the dark color from the background image": "背景画像から暗色を抽出",
		"Paint modules from the background image":       "背景画像でモジュールを描画",
		"Use a grayscale mask for masked dots":          "マスクドットにグレースケールを使用",

		// Logo flags
		"Logo image file":                            "ロゴ画像ファイル",
		"Logo size relative to the viewport":         "ビューポートに対するロゴの大きさ",
		"Logo plate margin in pixels":                "ロゴ台座の余白（ピクセル）",
		"Logo corner radius (negative for a circle)": "ロゴの角丸半径（負の値で円形）",
		"Service badge image file":                   "サービスバッジ画像ファイル",

		// Eye flags
		"Outer eye image file": "外側ファインダー画像ファイル",
		"Inner eye image file": "内側ファインダー画像ファイル",
		"Eye rotations in degrees: top-left, top-right, bottom-left": "ファインダーの回転角度: 左上、右上、左下",

		// Output flags
		"Output file path (default: qr-code.png)": "出力ファイルパス（デフォルト: qr-code.png）",
		"Print the output as a data URI":          "出力をデータURIとして表示",
		"Output format (png, jpeg, svg)":          "出力形式（png, jpeg, svg）",
		"JPEG quality (1-100)":                    "JPEG品質（1-100）",
		"Output directory":                        "出力ディレクトリ",
		"Number of workers (default: CPU count)":  "ワーカー数（デフォルト: CPU数）",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Rendering %d codes with %d workers": "%d 個のコードを %d ワーカーで描画中",
		"Failed to render %q: %s":            "%q の描画に失敗しました: %s",
		"%d of %d codes failed":              "%d / %d 個のコードが失敗しました",

		// Error messages
		"TEXT argument is required":     "TEXT引数が必要です",
		"At least one text is required": "テキストを1つ以上指定してください",
	})
}
