package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aradsms/contacts_services/internal/datashare_service/domain"
	"github.com/aradsms/contacts_services/internal/platform/database"
)

// PgProvider executes datashare operations against the table behind a URI.
// Table and column names reaching it have been checked against the table's column set.
type PgProvider struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgProvider(db database.Querier, logger *slog.Logger) *PgProvider {
	return &PgProvider{db: db, logger: logger}
}

func (p *PgProvider) Query(ctx context.Context, table domain.Table, columns []string, preds *domain.Predicates) (*domain.ResultSet, error) {
	compiled, err := preds.Compile(table, 1)
	if err != nil {
		return nil, err
	}
	projection := "*"
	if len(columns) > 0 {
		projection = strings.Join(columns, ", ")
	}
	query := `SELECT ` + projection + ` FROM ` + table.Name + compiled.Clause()

	rows, err := p.db.Query(ctx, query, compiled.Args...)
	if err != nil {
		p.logger.ErrorContext(ctx, "Error querying datashare table", "table", table.Name, "error", err)
		return nil, err
	}
	defer rows.Close()

	rs := &domain.ResultSet{Rows: [][]any{}}
	for _, fd := range rows.FieldDescriptions() {
		rs.Columns = append(rs.Columns, fd.Name)
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			p.logger.ErrorContext(ctx, "Error reading datashare row", "table", table.Name, "error", err)
			return nil, err
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		p.logger.ErrorContext(ctx, "Error iterating datashare rows", "table", table.Name, "error", err)
		return nil, err
	}
	return rs, nil
}

func insertStatement(table domain.Table, values domain.Values) (string, []any) {
	cols := values.Columns()
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[c]
	}
	query := `INSERT INTO ` + table.Name + ` (` + strings.Join(cols, ", ") + `) VALUES (` + strings.Join(marks, ", ") + `) RETURNING id`
	return query, args
}

// Insert adds one row and returns its id.
func (p *PgProvider) Insert(ctx context.Context, table domain.Table, values domain.Values) (int64, error) {
	query, args := insertStatement(table, values)
	var id int64
	if err := p.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		p.logger.ErrorContext(ctx, "Error inserting datashare row", "table", table.Name, "error", err)
		return 0, err
	}
	return id, nil
}

func (p *PgProvider) Update(ctx context.Context, table domain.Table, values domain.Values, preds *domain.Predicates) (int64, error) {
	cols := values.Columns()
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
		args = append(args, values[c])
	}
	compiled, err := preds.CompileFilter(table, len(cols)+1)
	if err != nil {
		return 0, err
	}
	query := `UPDATE ` + table.Name + ` SET ` + strings.Join(sets, ", ")
	if compiled.Where != "" {
		query += ` WHERE ` + compiled.Where
	}
	tag, err := p.db.Exec(ctx, query, append(args, compiled.Args...)...)
	if err != nil {
		p.logger.ErrorContext(ctx, "Error updating datashare rows", "table", table.Name, "error", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *PgProvider) Delete(ctx context.Context, table domain.Table, preds *domain.Predicates) (int64, error) {
	compiled, err := preds.CompileFilter(table, 1)
	if err != nil {
		return 0, err
	}
	query := `DELETE FROM ` + table.Name
	if compiled.Where != "" {
		query += ` WHERE ` + compiled.Where
	}
	tag, err := p.db.Exec(ctx, query, compiled.Args...)
	if err != nil {
		p.logger.ErrorContext(ctx, "Error deleting datashare rows", "table", table.Name, "error", err)
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BatchInsert inserts every row in one transaction; either all rows land or none do.
func (p *PgProvider) BatchInsert(ctx context.Context, table domain.Table, rows []domain.Values) (int64, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "Error starting batch insert transaction", "table", table.Name, "error", err)
		return 0, err
	}

	var n int64
	for i, values := range rows {
		query, args := insertStatement(table, values)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			p.logger.ErrorContext(ctx, "Error in batch insert", "table", table.Name, "row", i, "error", err)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				p.logger.ErrorContext(ctx, "Error rolling back batch insert", "table", table.Name, "error", rbErr)
			}
			return 0, fmt.Errorf("batch insert row %d: %w", i, err)
		}
		n++
	}
	if err := tx.Commit(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Error committing batch insert", "table", table.Name, "error", err)
		return 0, err
	}
	return n, nil
}
