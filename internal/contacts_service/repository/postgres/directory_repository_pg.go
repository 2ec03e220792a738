package postgres

import (
	"context"
	"log/slog"

	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	"github.com/aradsms/contacts_services/internal/platform/database"
)

type PgGroupRepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgGroupRepository(db database.Querier, logger *slog.Logger) *PgGroupRepository {
	return &PgGroupRepository{db: db, logger: logger}
}

func (r *PgGroupRepository) List(ctx context.Context, holder *coredomain.Holder) ([]coredomain.Group, error) {
	cond, args := holderClause(holder, 1)
	query := `SELECT id, group_name FROM contact_groups WHERE TRUE` + cond + ` ORDER BY id`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing groups", "error", err)
		return nil, err
	}
	defer rows.Close()

	groups := []coredomain.Group{}
	for rows.Next() {
		var g coredomain.Group
		if err := rows.Scan(&g.GroupID, &g.Title); err != nil {
			r.logger.ErrorContext(ctx, "Error scanning group row", "error", err)
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating group rows", "error", err)
		return nil, err
	}
	return groups, nil
}

type PgHolderRepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgHolderRepository(db database.Querier, logger *slog.Logger) *PgHolderRepository {
	return &PgHolderRepository{db: db, logger: logger}
}

func (r *PgHolderRepository) List(ctx context.Context) ([]coredomain.Holder, error) {
	rows, err := r.db.Query(ctx, `SELECT holder_id, bundle_name, display_name FROM holders ORDER BY holder_id`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing holders", "error", err)
		return nil, err
	}
	defer rows.Close()

	holders := []coredomain.Holder{}
	for rows.Next() {
		var h coredomain.Holder
		if err := rows.Scan(&h.HolderID, &h.BundleName, &h.DisplayName); err != nil {
			r.logger.ErrorContext(ctx, "Error scanning holder row", "error", err)
			return nil, err
		}
		holders = append(holders, h)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating holder rows", "error", err)
		return nil, err
	}
	return holders, nil
}
