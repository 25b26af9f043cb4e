package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeAmount  DiscountType = "amount"
)

func ParseDiscountType(s string) (DiscountType, error) {
	switch DiscountType(s) {
	case DiscountTypePercent:
		return DiscountTypePercent, nil
	case DiscountTypeAmount:
		return DiscountTypeAmount, nil
	default:
		return "", fmt.Errorf("unknown discount type %q", s)
	}
}

// 商品ごとの割引。同じ商品の有効な割引期間は重ならない。
type ProductDiscount struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64           `gorm:"not null;index:idx_discount_product_active" json:"product_id"`
	Type      DiscountType    `gorm:"type:varchar(20);not null" json:"type"`
	Value     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	StartAt   time.Time       `gorm:"not null" json:"start_at"`
	EndAt     time.Time       `gorm:"not null" json:"end_at"`
	IsActive  bool            `gorm:"not null;default:true;index:idx_discount_product_active" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	// 一覧表示用（JOIN結果）
	ProductName string `gorm:"->;-:migration" json:"product_name,omitempty"`
}
