package usecase

import (
	"context"
	"strings"
	"time"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	"ecadmin/internal/repository"
)

type AddressDTO struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	PostalCode string  `json:"postal_code"`
	Prefecture string  `json:"prefecture"`
	City       string  `json:"city"`
	Line1      string  `json:"line1"`
	Line2      string  `json:"line2"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	IsDefault  bool    `json:"is_default"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  *string `json:"updated_at,omitempty"`
}

type AddressRequest struct {
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	//作成時にデフォルトにするか
	IsDefault bool `json:"is_default"`
}

func (req AddressRequest) toModel() model.Address {
	return model.Address{
		PostalCode: strings.TrimSpace(req.PostalCode),
		Prefecture: strings.TrimSpace(req.Prefecture),
		City:       strings.TrimSpace(req.City),
		Line1:      strings.TrimSpace(req.Line1),
		Line2:      strings.TrimSpace(req.Line2),
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
	}
}

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, p Principal) ([]AddressDTO, error) {
	list, err := u.addresses.ListByUserID(ctx, p.UserID)
	if err != nil {
		return nil, fromRepo(err, "address")
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, p Principal, req AddressRequest) (AddressDTO, error) {
	a := req.toModel()
	//入力チェック
	if !a.Snapshot().Complete() {
		return AddressDTO{}, apperr.Validation("postal_code, prefecture, city, line1 and name are required")
	}

	now := time.Now()
	a.UserID = p.UserID
	a.CreatedAt = now
	a.UpdatedAt = now

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressDTO{}, fromRepo(err, "address")
	}

	if req.IsDefault {
		if err := u.addresses.SetDefault(ctx, p.UserID, created.ID); err != nil {
			return AddressDTO{}, fromRepo(err, "address")
		}
		created.IsDefault = true
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, p Principal, addressID int64, req AddressRequest) (AddressDTO, error) {
	current, err := u.owned(ctx, p, addressID)
	if err != nil {
		return AddressDTO{}, err
	}

	a := req.toModel()
	if !a.Snapshot().Complete() {
		return AddressDTO{}, apperr.Validation("postal_code, prefecture, city, line1 and name are required")
	}
	a.ID = addressID
	a.UserID = current.UserID
	a.IsDefault = current.IsDefault
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = time.Now()

	if err := u.addresses.Update(ctx, a); err != nil {
		return AddressDTO{}, fromRepo(err, "address")
	}
	return toAddressDTO(&a), nil
}

// 注文は住所のコピーを持つので、削除しても注文には影響しない
func (u *AddressUsecase) Delete(ctx context.Context, p Principal, addressID int64) error {
	if _, err := u.owned(ctx, p, addressID); err != nil {
		return err
	}
	return fromRepo(u.addresses.Delete(ctx, addressID), "address")
}

func (u *AddressUsecase) SetDefault(ctx context.Context, p Principal, addressID int64) error {
	if _, err := u.owned(ctx, p, addressID); err != nil {
		return err
	}
	//user内でdefaultは1つ
	return fromRepo(u.addresses.SetDefault(ctx, p.UserID, addressID), "address")
}

// 所有チェック（他人の住所は存在しない扱い）
func (u *AddressUsecase) owned(ctx context.Context, p Principal, addressID int64) (model.Address, error) {
	if err := requireID(addressID, "address id"); err != nil {
		return model.Address{}, err
	}
	a, err := u.addresses.FindByID(ctx, addressID)
	if err != nil {
		return model.Address{}, fromRepo(err, "address")
	}
	if a.UserID != p.UserID {
		return model.Address{}, apperr.NotFound("address not found")
	}
	return a, nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	dto := AddressDTO{
		ID:         a.ID,
		UserID:     a.UserID,
		PostalCode: a.PostalCode,
		Prefecture: a.Prefecture,
		City:       a.City,
		Line1:      a.Line1,
		Line2:      a.Line2,
		Name:       a.Name,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
	t := a.UpdatedAt.Format(time.RFC3339)
	dto.UpdatedAt = &t
	return dto
}
