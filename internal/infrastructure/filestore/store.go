package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

// Separator はフィールド区切り文字
const Separator = record.Separator

// ErrInvalidField はフィールドに区切り文字または改行が含まれる場合のエラー
var ErrInvalidField = record.ErrInvalidField

var _ record.Store = (*Store)(nil)

// Store はセミコロン区切りのテキストファイルによるレコードストア
// 1行1レコード、UTF-8、ヘッダーなし
// 読み込みと追記は ctx のキャンセルを監視しない
type Store struct {
	path string
}

// Open はストアを開く。ファイルが存在しない場合は空ファイルを作成する
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ディレクトリ作成に失敗: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ファイル作成に失敗: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// Path はファイルパスを返す
func (s *Store) Path() string {
	return s.path
}

// ReadAll は空行を除いた全レコードを返す
// 行の長さに上限はなく、長すぎる行も1レコードとして返す
func (s *Store) ReadAll(ctx context.Context) ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("ファイル読み込みに失敗: %w", err)
	}
	defer f.Close()

	var records [][]string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if fields := record.DecodeLine(line); fields != nil {
			records = append(records, fields)
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("ファイル読み込みに失敗: %w", err)
		}
	}
}

// Append はレコードを1行追記する
// ファイル末尾が改行で終わっていない場合は、先に改行を補ってから書き込む
func (s *Store) Append(ctx context.Context, fields []string) error {
	line, err := encode(fields)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("ファイル追記に失敗: %w", err)
	}
	terminated, err := endsWithNewline(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("ファイル追記に失敗: %w", err)
	}
	if !terminated {
		logger.Warn("末尾に改行のない行を検出したため改行を補います", zap.String("path", s.path))
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("ファイル追記に失敗: %w", err)
	}
	return f.Close()
}

// endsWithNewline は空ファイルまたは末尾が改行のとき true を返す
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}

// Overwrite は一時ファイルに書き出してから置き換える
func (s *Store) Overwrite(ctx context.Context, records [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("一時ファイル作成に失敗: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, fields := range records {
		line, err := encode(fields)
		if err != nil {
			tmp.Close()
			return err
		}
		if _, err := w.WriteString(line); err != nil {
			tmp.Close()
			return fmt.Errorf("ファイル書き込みに失敗: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("ファイル書き込みに失敗: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ファイル書き込みに失敗: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("ファイル置き換えに失敗: %w", err)
	}
	logger.Info("ファイルを上書きしました", zap.String("path", s.path), zap.Int("records", len(records)))
	return nil
}

// encode はフィールドを改行付きの1行に変換する
func encode(fields []string) (string, error) {
	line, err := record.EncodeLine(fields)
	if err != nil {
		return "", err
	}
	return line + "\n", nil
}
