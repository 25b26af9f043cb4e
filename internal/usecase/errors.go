package usecase

import (
	"errors"
	"strconv"

	"ecadmin/internal/apperr"
	repo "ecadmin/internal/repository"
)

// fromRepoはrepositoryのエラーをapperrに変換する。
// すでにapperrならそのまま返す。
func fromRepo(err error, what string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, repo.ErrConflict):
		return apperr.Conflict(what + " already exists")
	default:
		return apperr.Internal(err)
	}
}

func requireID(id int64, name string) error {
	if id <= 0 {
		return apperr.Validation("invalid " + name)
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
