package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-cinema-reservation/internal/domain/record"
)

// CustomValidator はEcho用のカスタムバリデーター
type CustomValidator struct {
	validator *validator.Validate
}

// customTags はリクエスト構造体で使う独自タグ
// "nosep" はストアの区切り文字と改行を含まない文字列を要求する
var customTags = map[string]validator.Func{
	"nosep": func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), record.Separator+"\r\n")
	},
}

// NewValidator は新しいバリデーターを作成する
// 独自タグを登録できない場合は起動時に panic する
func NewValidator() *CustomValidator {
	v := validator.New()
	if err := registerTags(v, customTags); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

func registerTags(v *validator.Validate, tags map[string]validator.Func) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("バリデーションタグ %q の登録に失敗: %w", tag, err)
		}
	}
	return nil
}

// Validate はリクエストのバリデーションを実行する
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
