package usecase

import (
	"context"
	"strings"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return apperr.Validation("category required")
	}
	if in.Price.IsNegative() {
		return apperr.Validation("price must be >= 0")
	}
	return nil
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, q repo.ListQuery) ([]model.Product, repo.Pagination, error) {
	q = q.Normalize(repo.ProductSortFields)
	if len(q.Search) > 100 {
		return []model.Product{}, repo.Pagination{}, apperr.Validation("search too long")
	}

	items, total, err := u.productRepo.ListActive(ctx, q)
	if err != nil {
		return []model.Product{}, repo.Pagination{}, fromRepo(err, "product")
	}
	return items, repo.NewPagination(q, total), nil
}

// 非公開の商品は存在しない扱い
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if err := requireID(productID, "product id"); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, fromRepo(err, "product")
	}
	if !p.IsActive {
		return model.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		IsActive:    active,
	})
	if err != nil {
		return model.Product{}, fromRepo(err, "product")
	}
	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, productID int64, in ProductInput) (model.Product, error) {
	if err := requireID(productID, "product id"); err != nil {
		return model.Product{}, err
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	current, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, fromRepo(err, "product")
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Description = in.Description
	current.Category = strings.TrimSpace(in.Category)
	current.Price = in.Price
	if in.IsActive != nil {
		current.IsActive = *in.IsActive
	}

	if err := u.productRepo.Update(ctx, current); err != nil {
		return model.Product{}, fromRepo(err, "product")
	}
	return current, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, productID int64) error {
	if err := requireID(productID, "product id"); err != nil {
		return err
	}
	return fromRepo(u.productRepo.SoftDelete(ctx, productID), "product")
}
