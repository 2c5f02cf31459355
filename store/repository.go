// Package store 是遠端訂單試算表的參考實作，提供與試算表相同的 HTTP 介面，
// 用於本機開發、整合測試與示範資料。
package store

import (
	"context"
	"errors"

	"gofalre.io/kitchen/models"
	"gofalre.io/kitchen/models/enum"
)

// FirstRowIndex 第一列是試算表標題，訂單從第二列開始
const FirstRowIndex = 2

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repository 是訂單表的儲存介面；rowIndex 一經分配就不會重複使用
type Repository interface {
	List(ctx context.Context) ([]*models.Order, error)
	Append(ctx context.Context, order *models.Order) (*models.Order, error)
	UpdateStatus(ctx context.Context, rowIndex int, action enum.Action) (*models.Order, error)
}
