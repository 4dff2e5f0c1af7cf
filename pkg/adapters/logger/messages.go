package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting render":                             "レンダリングを開始します",
		"Render completed: %dx%d %s, %d bytes":        "レンダリング完了: %dx%d %s, %d バイト",
		"Planning geometry for %d modules":            "%d モジュールのジオメトリを計算中",
		"Plan: module %dpx, viewport %dpx, card %dpx": "計画: モジュール %dpx, ビューポート %dpx, カード %dpx",
		"Composing background":                        "背景を合成中",
		"Rendering %d modules":                        "%d モジュールを描画中",
		"Rendering patterns":                          "パターンを描画中",
		"Compositing layers":                          "レイヤーを合成中",
		"Exporting %s":                                "%s を書き出し中",
		"Output saved to %s":                          "出力を %s に保存しました",
		"Interrupted, shutting down...":               "中断されました。シャットダウン中...",

		// Stage component messages (debug)
		"Protected %d zones (%d alignment)":                   "%d 個の保護領域 (アライメント %d)",
		"Drew %d eyes, %d alignment markers, %d timing cells": "目 %d 個、アライメント %d 個、タイミング %d セルを描画",
		"Background: %s":                                      "背景: %s",
		"Sampled accent color #%02x%02x%02x":                  "アクセント色を抽出しました #%02x%02x%02x",
		"Modules: %d stylized, %d full size, %d suppressed":   "モジュール: 装飾 %d, 等倍 %d, 抑制 %d",
		"Logo placed at %.1f,%.1f size %.1f":                  "ロゴ配置 %.1f,%.1f サイズ %.1f",
		"Composite order: %s, resampling %d -> %d":            "合成順序: %s, リサンプリング %d -> %d",
		"Encoded %s: %d bytes":                                "%s エンコード完了: %d バイト",

		// Warnings
		"Output sink failed: %s":           "出力先への書き込みに失敗しました: %s",
		"Failed to write debug output: %s": "デバッグ出力の書き込みに失敗しました: %s",

		// Errors
		"Invalid dot scale %v":             "不正なドットスケール %v",
		"Failed to compose background: %s": "背景の合成に失敗しました: %s",
		"Failed to render modules: %s":     "モジュールの描画に失敗しました: %s",
		"Failed to render patterns: %s":    "パターンの描画に失敗しました: %s",
		"Failed to composite layers: %s":   "レイヤーの合成に失敗しました: %s",
		"Failed to export: %s":             "書き出しに失敗しました: %s",
	})
}
