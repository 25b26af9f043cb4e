package model

import "time"

// 注文の状態変更、ユーザー無効化など。
type AuditAction string

const (
	//注文の状態を進めた
	AuditActionOrderAdvance AuditAction = "ORDER_ADVANCE"
	//注文をキャンセルした
	AuditActionOrderCancel AuditAction = "ORDER_CANCEL"
	//注文内容（住所・明細）を変更した
	AuditActionOrderUpdate AuditAction = "ORDER_UPDATE"
	//ユーザーを無効化した（退会含む）
	AuditActionUserDeactivate AuditAction = "USER_DEACTIVATE"
)

// 何に対する操作か
type AuditResourceType string

const (
	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"

	//ユーザーに対する操作。
	AuditResourceUser AuditResourceType = "user"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
