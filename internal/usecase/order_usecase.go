package usecase

import (
	"context"
	"encoding/json"
	"time"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	"ecadmin/internal/domain/order"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
)

// commit後の注文イベントを記録する（prometheus）
type OrderEventRecorder interface {
	OrderEvent(event, status string)
}

type nopRecorder struct{}

func (nopRecorder) OrderEvent(string, string) {}

type OrderUsecase struct {
	tx     repo.TransactionManager
	events OrderEventRecorder
	now    func() time.Time
}

func NewOrderUsecase(tx repo.TransactionManager, events OrderEventRecorder) *OrderUsecase {
	if events == nil {
		events = nopRecorder{}
	}
	return &OrderUsecase{tx: tx, events: events, now: time.Now}
}

type OrderItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CreateOrderInput struct {
	Items             []OrderItemInput
	Address           *model.ShippingAddress
	UseDefaultAddress bool
}

// ReplaceItemsがtrueのときだけ明細を入れ替える（空ならEmptyOrder）
type UpdateOrderInput struct {
	Address           *model.ShippingAddress
	UseDefaultAddress bool
	Items             []OrderItemInput
	ReplaceItems      bool
}

type OrderItemOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"user_id"`
	Status          model.OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Items           []OrderItemOutput     `json:"items"`
}

// 注文作成。明細・住所・合計を1トランザクションで保存する。
func (u *OrderUsecase) Create(ctx context.Context, p Principal, in CreateOrderInput) (OrderOutput, error) {
	lines, err := order.PriceLines(toItemInputs(in.Items))
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		addr, err := resolveAddress(ctx, r, p.UserID, in.Address, in.UseDefaultAddress)
		if err != nil {
			return err
		}

		items, err := snapshotItems(ctx, r, lines)
		if err != nil {
			return err
		}

		now := u.now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          p.UserID,
			ShippingAddress: addr,
			TotalAmount:     decimal.Zero,
			Status:          model.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fromRepo(err, "order")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return fromRepo(err, "order item")
		}
		//保存された明細から合計を出す
		if err := recalcTotal(ctx, r, orderID); err != nil {
			return err
		}

		out, err = loadOrder(ctx, r, orderID)
		return err
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.events.OrderEvent("create", string(out.Status))
	return out, nil
}

// 住所・明細の変更。pendingの間だけ。
func (u *OrderUsecase) Update(ctx context.Context, p Principal, orderID int64, in UpdateOrderInput) (OrderOutput, error) {
	if err := requireID(orderID, "order id"); err != nil {
		return OrderOutput{}, err
	}
	if in.Address == nil && !in.UseDefaultAddress && !in.ReplaceItems {
		return OrderOutput{}, apperr.Validation("nothing to update")
	}

	var lines []order.Line
	if in.ReplaceItems {
		var err error
		lines, err = order.PriceLines(toItemInputs(in.Items))
		if err != nil {
			return OrderOutput{}, err
		}
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := lockOwnedOrder(ctx, r, p, orderID)
		if err != nil {
			return err
		}
		if err := order.CheckEditable(o.Status); err != nil {
			return err
		}

		before, err := loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		if in.Address != nil || in.UseDefaultAddress {
			// デフォルト住所は注文したユーザーのもの
			addr, err := resolveAddress(ctx, r, o.UserID, in.Address, in.UseDefaultAddress)
			if err != nil {
				return err
			}
			if err := r.Orders().UpdateShippingAddress(ctx, orderID, addr); err != nil {
				return fromRepo(err, "order")
			}
		}

		if in.ReplaceItems {
			items, err := snapshotItems(ctx, r, lines)
			if err != nil {
				return err
			}
			if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
				return fromRepo(err, "order item")
			}
			if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
				return fromRepo(err, "order item")
			}
			if err := recalcTotal(ctx, r, orderID); err != nil {
				return err
			}
		}

		out, err = loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		return writeAudit(ctx, r, p.UserID, model.AuditActionOrderUpdate, orderID, before, out, u.now())
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.events.OrderEvent("update", string(out.Status))
	return out, nil
}

// pendingの注文をcancelledにする。明細は残す。
func (u *OrderUsecase) Cancel(ctx context.Context, p Principal, orderID int64) (OrderOutput, error) {
	if err := requireID(orderID, "order id"); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := lockOwnedOrder(ctx, r, p, orderID)
		if err != nil {
			return err
		}
		if err := order.CheckCancel(o.Status, o.UserID, p.Actor()); err != nil {
			return err
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			return fromRepo(err, "order")
		}

		out, err = loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		return writeAudit(ctx, r, p.UserID, model.AuditActionOrderCancel, orderID,
			statusJSON{Status: o.Status}, statusJSON{Status: out.Status}, u.now())
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.events.OrderEvent("cancel", string(out.Status))
	return out, nil
}

// 注文を次の状態へ進める。誰が進められるかはorder.CheckAdvanceが決める。
func (u *OrderUsecase) Advance(ctx context.Context, p Principal, orderID int64) (OrderOutput, error) {
	if err := requireID(orderID, "order id"); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return fromRepo(err, "order")
		}

		next, err := order.CheckAdvance(o.Status, o.UserID, p.Actor())
		if err != nil {
			return err
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			return fromRepo(err, "order")
		}

		out, err = loadOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		return writeAudit(ctx, r, p.UserID, model.AuditActionOrderAdvance, orderID,
			statusJSON{Status: o.Status}, statusJSON{Status: next}, u.now())
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.events.OrderEvent("advance", string(out.Status))
	return out, nil
}

// 注文詳細。本人かadminのみ（他人の注文は存在しない扱い）
func (u *OrderUsecase) Get(ctx context.Context, p Principal, orderID int64) (OrderOutput, error) {
	if err := requireID(orderID, "order id"); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return fromRepo(err, "order")
		}
		if !p.IsAdmin() && o.UserID != p.UserID {
			return apperr.NotFound("order not found")
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return fromRepo(err, "order item")
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文一覧
func (u *OrderUsecase) ListMine(ctx context.Context, p Principal, q repo.ListQuery) ([]OrderOutput, repo.Pagination, error) {
	q = q.Normalize(repo.MyOrderSortFields)

	outs := []OrderOutput{}
	var total int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListByUserID(ctx, p.UserID, q)
		if err != nil {
			return fromRepo(err, "order")
		}
		total = n

		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return fromRepo(err, "order item")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, repo.Pagination{}, err
	}
	return outs, repo.NewPagination(q, total), nil
}

// 管理者用一覧。statusの指定がなければ pending/paid のみ。
func (u *OrderUsecase) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]repo.OrderSummary, repo.Pagination, error) {
	f.ListQuery = f.ListQuery.Normalize(repo.OrderSortFields)

	var rows []repo.OrderSummary
	var total int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		rows, total, err = r.Orders().ListAdmin(ctx, f)
		return fromRepo(err, "order")
	})
	if err != nil {
		return []repo.OrderSummary{}, repo.Pagination{}, err
	}
	return rows, repo.NewPagination(f.ListQuery, total), nil
}

// 行ロックを取り、所有者チェックをする。
// admin以外が他人の注文を触ろうとしたらNotFound。
func lockOwnedOrder(ctx context.Context, r repo.TxRepos, p Principal, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return model.Order{}, fromRepo(err, "order")
	}
	if !p.IsAdmin() && o.UserID != p.UserID {
		return model.Order{}, apperr.NotFound("order not found")
	}
	return o, nil
}

// 明示の住所 or デフォルト住所のスナップショットを返す
func resolveAddress(ctx context.Context, r repo.TxRepos, userID int64, addr *model.ShippingAddress, useDefault bool) (model.ShippingAddress, error) {
	if useDefault {
		a, err := r.Addresses().FindDefaultByUserID(ctx, userID)
		if err != nil {
			if apperr.Is(fromRepo(err, "address"), apperr.KindNotFound) {
				return model.ShippingAddress{}, apperr.New(apperr.KindNoDefaultAddress, "no default address")
			}
			return model.ShippingAddress{}, fromRepo(err, "address")
		}
		return a.Snapshot(), nil
	}

	if addr == nil || !addr.Complete() {
		return model.ShippingAddress{}, apperr.Validation("shipping address is incomplete")
	}
	return *addr, nil
}

// 商品が存在して公開中かを確認し、商品名を明細に残す
func snapshotItems(ctx context.Context, r repo.TxRepos, lines []order.Line) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		prod, err := r.Products().FindByID(ctx, l.ProductID)
		if err != nil {
			return nil, fromRepo(err, "product")
		}
		if !prod.IsActive {
			return nil, apperr.NotFound("product not found")
		}
		items = append(items, model.OrderItem{
			ProductID:           l.ProductID,
			ProductNameSnapshot: prod.Name,
			Quantity:            l.Quantity,
			UnitPrice:           l.UnitPrice,
			Total:               l.Total,
		})
	}
	return items, nil
}

// SUM(total) で合計を再計算する
func recalcTotal(ctx context.Context, r repo.TxRepos, orderID int64) error {
	sum, err := r.OrderItems().SumTotalByOrderID(ctx, orderID)
	if err != nil {
		return fromRepo(err, "order item")
	}
	return fromRepo(r.Orders().UpdateTotal(ctx, orderID, sum), "order")
}

func loadOrder(ctx context.Context, r repo.TxRepos, orderID int64) (OrderOutput, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, fromRepo(err, "order")
	}
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, fromRepo(err, "order item")
	}
	return toOrderOutput(o, items), nil
}

type statusJSON struct {
	Status model.OrderStatus `json:"status"`
}

// 監査ログは変更と同じトランザクションで書く
func writeAudit(ctx context.Context, r repo.TxRepos, actorID int64, action model.AuditAction, orderID int64, before, after interface{}, now time.Time) error {
	b, err := json.Marshal(before)
	if err != nil {
		return apperr.Internal(err)
	}
	a, err := json.Marshal(after)
	if err != nil {
		return apperr.Internal(err)
	}

	return fromRepo(r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   string(b),
		AfterJSON:    string(a),
		CreatedAt:    now,
	}), "audit log")
}

func toItemInputs(in []OrderItemInput) []order.ItemInput {
	out := make([]order.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, order.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.Price})
	}
	return out
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           outItems,
	}
}
