package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/schedulehub/backend/internal/config"
	"github.com/schedulehub/backend/internal/domain"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// translateShiftConflict 将数据库的重叠班次排他约束冲突翻译成领域错误，
// 调用方不需要感知底层存储错误
func translateShiftConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "shifts_no_worker_overlap" {
		return domain.NewConflictError("班次", "不能创建重叠的班次：员工在该时间段已有排班")
	}
	return err
}
