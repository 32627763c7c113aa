package record

import (
	"errors"
	"fmt"
	"strings"
)

// Separator はフィールド区切り文字
const Separator = ";"

// ErrInvalidField はフィールドに区切り文字または改行が含まれる場合のエラー
var ErrInvalidField = errors.New("フィールドに区切り文字または改行は使用できません")

// EncodeLine はフィールドを区切り文字で連結した1行（改行なし）に変換する
// 区切り文字や改行を含むフィールドは行の構造を壊すため拒否する
func EncodeLine(fields []string) (string, error) {
	for _, f := range fields {
		if strings.ContainsAny(f, Separator+"\r\n") {
			return "", fmt.Errorf("%w: %q", ErrInvalidField, f)
		}
	}
	return strings.Join(fields, Separator), nil
}

// DecodeLine は1行をフィールドに分割する。空行は nil を返す
func DecodeLine(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return strings.Split(line, Separator)
}
