package usecase

import (
	"context"
	"time"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/discount"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type DiscountUsecase struct {
	tx        repo.TransactionManager
	discounts repo.ProductDiscountRepository
}

func NewDiscountUsecase(tx repo.TransactionManager, discounts repo.ProductDiscountRepository) *DiscountUsecase {
	return &DiscountUsecase{tx: tx, discounts: discounts}
}

type DiscountInput struct {
	ProductID int64
	Type      model.DiscountType
	Value     decimal.Decimal
	StartAt   time.Time
	EndAt     time.Time
}

func (in DiscountInput) validate() (discount.Window, error) {
	if err := requireID(in.ProductID, "product_id"); err != nil {
		return discount.Window{}, err
	}
	if _, err := model.ParseDiscountType(string(in.Type)); err != nil {
		return discount.Window{}, apperr.Validation("type must be percent or amount")
	}
	if !in.Value.IsPositive() {
		return discount.Window{}, apperr.Validation("value must be positive")
	}
	if in.Type == model.DiscountTypePercent && in.Value.GreaterThan(decimal.NewFromInt(100)) {
		return discount.Window{}, apperr.Validation("percent value must be <= 100")
	}
	return discount.NewWindow(in.StartAt, in.EndAt)
}

func (u *DiscountUsecase) List(ctx context.Context, q repo.ListQuery) ([]model.ProductDiscount, repo.Pagination, error) {
	q = q.Normalize(repo.DiscountSortFields)
	list, total, err := u.discounts.ListActive(ctx, q)
	if err != nil {
		return []model.ProductDiscount{}, repo.Pagination{}, fromRepo(err, "discount")
	}
	return list, repo.NewPagination(q, total), nil
}

func (u *DiscountUsecase) Get(ctx context.Context, id int64) (model.ProductDiscount, error) {
	if err := requireID(id, "discount id"); err != nil {
		return model.ProductDiscount{}, err
	}
	d, err := u.discounts.FindActiveByID(ctx, id)
	if err != nil {
		return model.ProductDiscount{}, fromRepo(err, "discount")
	}
	return d, nil
}

// 商品行をロックしてから重複チェック→INSERT。
// 同じ商品への同時作成はロックで直列になり、重なる方はOverlappingWindowになる。
func (u *DiscountUsecase) Create(ctx context.Context, in DiscountInput) (model.ProductDiscount, error) {
	w, err := in.validate()
	if err != nil {
		return model.ProductDiscount{}, err
	}

	var created model.ProductDiscount
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := checkWindowFree(ctx, r, in.ProductID, 0, w); err != nil {
			return err
		}

		created, err = r.Discounts().Create(ctx, model.ProductDiscount{
			ProductID: in.ProductID,
			Type:      in.Type,
			Value:     in.Value,
			StartAt:   w.StartAt,
			EndAt:     w.EndAt,
			IsActive:  true,
		})
		return fromRepo(err, "discount")
	})
	if err != nil {
		return model.ProductDiscount{}, err
	}
	return created, nil
}

// 更新も同じ手順。自分自身とは重複判定しない。
func (u *DiscountUsecase) Update(ctx context.Context, id int64, in DiscountInput) (model.ProductDiscount, error) {
	if err := requireID(id, "discount id"); err != nil {
		return model.ProductDiscount{}, err
	}
	w, err := in.validate()
	if err != nil {
		return model.ProductDiscount{}, err
	}

	var updated model.ProductDiscount
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Discounts().FindActiveByID(ctx, id); err != nil {
			return fromRepo(err, "discount")
		}
		if err := checkWindowFree(ctx, r, in.ProductID, id, w); err != nil {
			return err
		}

		d := model.ProductDiscount{
			ID:        id,
			ProductID: in.ProductID,
			Type:      in.Type,
			Value:     in.Value,
			StartAt:   w.StartAt,
			EndAt:     w.EndAt,
		}
		if err := r.Discounts().Update(ctx, d); err != nil {
			return fromRepo(err, "discount")
		}

		updated, err = r.Discounts().FindActiveByID(ctx, id)
		return fromRepo(err, "discount")
	})
	if err != nil {
		return model.ProductDiscount{}, err
	}
	return updated, nil
}

// 論理削除（is_active=false）
func (u *DiscountUsecase) Delete(ctx context.Context, id int64) error {
	if err := requireID(id, "discount id"); err != nil {
		return err
	}
	return fromRepo(u.discounts.Deactivate(ctx, id), "discount")
}

func checkWindowFree(ctx context.Context, r repo.TxRepos, productID, excludeID int64, w discount.Window) error {
	// SELECT ... FOR UPDATE
	if _, err := r.Products().LockByID(ctx, productID); err != nil {
		return fromRepo(err, "product")
	}

	existing, err := r.Discounts().ListActiveByProductID(ctx, productID, excludeID)
	if err != nil {
		return fromRepo(err, "discount")
	}

	windows := make([]discount.Window, 0, len(existing))
	for _, d := range existing {
		windows = append(windows, discount.Window{StartAt: d.StartAt, EndAt: d.EndAt})
	}
	if i, ok := discount.FindOverlap(windows, w); ok {
		return apperr.New(apperr.KindOverlappingWindow,
			"discount period overlaps with discount "+formatID(existing[i].ID))
	}
	return nil
}
