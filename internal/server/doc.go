// Package server は、TCP接続の受け付けとリクエストの振り分けを担当します。
//
// 責務:
//   - リスニングソケットのバインドと接続の受け付け
//   - 接続ごとのゴルーチンでのHTTP処理 (net/http の接続モデル)
//   - メソッドとパスによるリクエストの振り分け
//   - 静的ファイルの配信と拡張子からの Content-Type 判定
//   - echo / noop / 挨拶 / index / フィボナッチ計算の各ハンドラ
//
// 仕様:
//   - ルーティングはginのエンジン上で、順序付きのルール表を先頭から評価する
//   - GETでファイルらしいパス (例: /app.js) は固定パスより優先して静的ファイルとして扱う
//   - 静的ファイルは設定されたルート配下に限定し、ルート外へのアクセスは拒否する
//   - ある接続でのエラーやパニックは、その接続だけに閉じ込める
//   - グレースフルシャットダウンに対応
package server
