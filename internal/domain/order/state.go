package order

import (
	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
)

// 操作しているユーザー
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// NextStatusは固定の流れ pending -> paid -> shipped で次の状態を返す。
// shipped/cancelledは次がない。
func NextStatus(s model.OrderStatus) (model.OrderStatus, bool) {
	switch s {
	case model.OrderStatusPending:
		return model.OrderStatusPaid, true
	case model.OrderStatusPaid:
		return model.OrderStatusShipped, true
	case model.OrderStatusShipped, model.OrderStatusCancelled:
		return "", false
	default:
		return "", false
	}
}

// CheckAdvanceは actor が注文を次の状態へ進められるかを判定し、次の状態を返す。
//
//	pending -> paid    : 注文したユーザー本人のみ
//	paid    -> shipped : adminのみ
//	shipped            : FinalState
//	cancelled          : InvalidTransition
func CheckAdvance(current model.OrderStatus, ownerID int64, actor Actor) (model.OrderStatus, error) {
	switch current {
	case model.OrderStatusShipped:
		return "", apperr.New(apperr.KindFinalState, "order is already shipped")
	case model.OrderStatusCancelled:
		return "", apperr.InvalidTransition("cancelled order cannot advance")
	case model.OrderStatusPending:
		switch actor.Role {
		case model.RoleUser:
			if actor.UserID != ownerID {
				return "", apperr.Forbidden("only the order owner can pay")
			}
		case model.RoleAdmin:
			return "", apperr.InvalidTransition("admin cannot advance a pending order")
		default:
			return "", apperr.Forbidden("unknown role")
		}
	case model.OrderStatusPaid:
		switch actor.Role {
		case model.RoleAdmin:
		case model.RoleUser:
			return "", apperr.Forbidden("only admin can ship an order")
		default:
			return "", apperr.Forbidden("unknown role")
		}
	default:
		return "", apperr.InvalidTransition("unknown order status")
	}

	next, ok := NextStatus(current)
	if !ok {
		return "", apperr.InvalidTransition("no next status")
	}
	return next, nil
}

// CheckCancelはpendingのときだけ許可する。本人かadminのみ。
func CheckCancel(current model.OrderStatus, ownerID int64, actor Actor) error {
	if !actor.IsAdmin() && actor.UserID != ownerID {
		return apperr.Forbidden("only the order owner or admin can cancel")
	}

	switch current {
	case model.OrderStatusPending:
		return nil
	case model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCancelled:
		return apperr.InvalidTransition("order can only be cancelled while pending")
	default:
		return apperr.InvalidTransition("unknown order status")
	}
}

// CheckEditableは住所・明細の変更可否（pendingのみ）
func CheckEditable(current model.OrderStatus) error {
	if current != model.OrderStatusPending {
		return apperr.New(apperr.KindOrderLocked, "order cannot be modified")
	}
	return nil
}
