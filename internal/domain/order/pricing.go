// Package order holds the pure order rules: line pricing and the status
// state machine. Nothing here touches the database.
package order

import (
	"ecadmin/internal/apperr"

	"github.com/shopspring/decimal"
)

// 注文明細の入力（商品ID・数量・単価）
type ItemInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// 金額計算済みの明細
type Line struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// LineTotal returns quantity * unitPrice.
func LineTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// OrderTotal returns the sum of the line totals.
func OrderTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}

// 単価の小数桁（numeric(12,2)）
const priceScale = 2

// PriceLinesは入力を検証して明細ごとの合計を計算する。
// 空ならEmptyOrder、数量・単価が0以下や単価の小数が3桁以上ならValidation。
func PriceLines(items []ItemInput) ([]Line, error) {
	if len(items) == 0 {
		return nil, apperr.New(apperr.KindEmptyOrder, "order must contain at least one item")
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		if it.ProductID <= 0 {
			return nil, apperr.Validation("invalid product_id")
		}
		if it.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be positive")
		}
		if !it.UnitPrice.IsPositive() {
			return nil, apperr.Validation("price must be positive")
		}
		if !it.UnitPrice.Equal(it.UnitPrice.Truncate(priceScale)) {
			return nil, apperr.Validation("price must have at most 2 decimal places")
		}
		lines = append(lines, Line{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     LineTotal(it.Quantity, it.UnitPrice),
		})
	}
	return lines, nil
}
