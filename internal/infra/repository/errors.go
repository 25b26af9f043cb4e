package repository

import (
	stderrors "errors"
	"strings"

	repo "ecadmin/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// postgresのunique_violation
const pgUniqueViolation = "23505"

func isNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}

// translateはgorm/pgのエラーをrepositoryのエラーに揃える
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return repo.ErrNotFound
	case isUniqueViolation(err):
		return errors.WithMessage(repo.ErrConflict, op)
	default:
		return errors.Wrap(err, op)
	}
}

// affectedは0件更新をErrNotFoundにする
func affected(res *gorm.DB, op string) error {
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 検索語の % _ \ はワイルドカードにしない（ESCAPE '\' と組で使う）
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
