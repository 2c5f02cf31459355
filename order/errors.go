package order

import (
	"errors"
	"fmt"
)

// NetworkError 代表遠端回傳非成功狀態碼或連線失敗
type NetworkError struct {
	Op         string // list 或 action mode
	StatusCode int    // 0 表示連線層錯誤
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError 代表回應內容不是預期的訂單陣列
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse orders: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StatusCode 取出錯誤鏈上的 HTTP 狀態碼，沒有則回傳 0
func StatusCode(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode
	}
	return 0
}
