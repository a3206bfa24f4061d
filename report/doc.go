// Package report は学習結果（係数・評価指標・予測価格）を人間向けおよび機械向けに出力する
//
// 出力形式は text（go-pretty の罫線テーブル）、markdown、json の3種類。
// auto を指定すると、出力先が端末なら text、そうでなければ markdown を選ぶ。
package report
