package middleware

import (
	"sync"

	"github.com/labstack/echo/v4"
)

// Serialize はハンドラーを mu で直列化する
// 上映カタログと座席状態は単一の呼び出し元を前提にしているため、
// 同じ mu をバックグラウンドワーカーとも共有する
func Serialize(mu sync.Locker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mu.Lock()
			defer mu.Unlock()
			return next(c)
		}
	}
}
