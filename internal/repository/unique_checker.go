package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// uniqueColumns whitelists the identifiers a uniqueness lookup may touch.
var uniqueColumns = map[string]map[string]bool{
	"quizzes": {"title": true},
	"answers": {"title": true, "quiz_id": true},
}

// UniqueChecker answers validator uniqueness lookups against PostgreSQL.
type UniqueChecker struct {
	db *pgxpool.Pool
}

// NewUniqueChecker creates a new UniqueChecker.
func NewUniqueChecker(db *pgxpool.Pool) *UniqueChecker {
	return &UniqueChecker{db: db}
}

// IsUniqueWithin reports whether no row of scope.Table other than excludeID
// has field = value (and scope.Column = scope.Value when a column is given).
func (u *UniqueChecker) IsUniqueWithin(ctx context.Context, scope validator.Scope, field, value string, excludeID int) (bool, error) {
	cols, ok := uniqueColumns[scope.Table]
	if !ok || !cols[field] || (scope.Column != "" && !cols[scope.Column]) {
		return false, fmt.Errorf("uniqueness lookup on %s.%s is not allowed", scope.Table, field)
	}

	query := `SELECT NOT EXISTS (SELECT 1 FROM ` + scope.Table + ` WHERE ` + field + ` = $1`
	args := []any{value}
	if scope.Column != "" {
		args = append(args, scope.Value)
		query += ` AND ` + scope.Column + ` = $` + strconv.Itoa(len(args))
	}
	if excludeID > 0 {
		args = append(args, excludeID)
		query += ` AND id <> $` + strconv.Itoa(len(args))
	}
	query += `)`

	var unique bool
	if err := u.db.QueryRow(ctx, query, args...).Scan(&unique); err != nil {
		return false, err
	}
	return unique, nil
}
