package record

import "context"

// Store は1行1レコードのフラットなレコードストアのインターフェース
// 各レコードはフィールドの列として扱い、区切り文字や行の書式は実装側が持つ
type Store interface {
	// ReadAll は全レコードを書き込み順に返す（空行は含まない）
	ReadAll(ctx context.Context) ([][]string, error)

	// Append はレコードを1件追記する
	Append(ctx context.Context, fields []string) error

	// Overwrite はストアの内容を与えられたレコードで置き換える
	Overwrite(ctx context.Context, records [][]string) error
}
