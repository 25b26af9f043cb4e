package model

import (
	"strings"
	"time"
)

// 配送先住所（アドレス帳）
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//宛名
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	//郵便番号
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code"`
	//都道府県
	Prefecture string `gorm:"type:varchar(100);not null" json:"prefecture"`
	//市区町村
	City string `gorm:"type:varchar(255);not null" json:"city"`
	//番地など
	Line1 string `gorm:"type:varchar(255);not null" json:"line1"`
	//建物名など
	Line2 string `gorm:"type:varchar(255)" json:"line2"`
	//電話番号
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	//このユーザーのデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// 注文に保存する住所のスナップショット。
// ユーザーの住所を後から変えても注文側は変わらない。
type ShippingAddress struct {
	Name       string `gorm:"type:varchar(255);not null;default:''" json:"name"`
	PostalCode string `gorm:"type:varchar(20);not null;default:''" json:"postal_code"`
	Prefecture string `gorm:"type:varchar(100);not null;default:''" json:"prefecture"`
	City       string `gorm:"type:varchar(255);not null;default:''" json:"city"`
	Line1      string `gorm:"type:varchar(255);not null;default:''" json:"line1"`
	Line2      string `gorm:"type:varchar(255)" json:"line2"`
	Phone      string `gorm:"type:varchar(30)" json:"phone"`
}

// SnapshotはAddressの値をコピーする
func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		Name:       a.Name,
		PostalCode: a.PostalCode,
		Prefecture: a.Prefecture,
		City:       a.City,
		Line1:      a.Line1,
		Line2:      a.Line2,
		Phone:      a.Phone,
	}
}

// 必須項目が揃っているか
func (s ShippingAddress) Complete() bool {
	return strings.TrimSpace(s.Name) != "" &&
		strings.TrimSpace(s.PostalCode) != "" &&
		strings.TrimSpace(s.Prefecture) != "" &&
		strings.TrimSpace(s.City) != "" &&
		strings.TrimSpace(s.Line1) != ""
}
