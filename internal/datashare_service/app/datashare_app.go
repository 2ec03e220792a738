package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	"github.com/aradsms/contacts_services/internal/datashare_service/domain"
	"github.com/aradsms/contacts_services/internal/platform/logger"
	"github.com/aradsms/contacts_services/internal/platform/messagebroker"
)

// Application is the datashare client: every call names its table by URI.
// Request errors (unknown URI or column, empty values, bad predicates) are returned as-is;
// storage failures become QueryValueFailed or SetValueFailed.
type Application struct {
	provider  domain.Provider
	publisher messagebroker.Publisher
	logger    *slog.Logger
}

func NewApplication(provider domain.Provider, publisher messagebroker.Publisher, logger *slog.Logger) *Application {
	return &Application{
		provider:  provider,
		publisher: publisher,
		logger:    logger.With("component", "datashare_app"),
	}
}

func isRequestError(err error) bool {
	return errors.Is(err, domain.ErrUnknownURI) || errors.Is(err, domain.ErrUnknownColumn) ||
		errors.Is(err, domain.ErrEmptyValues) || errors.Is(err, domain.ErrInvalidPredicate)
}

func (a *Application) storageError(ctx context.Context, op string, table string, err error, code int) error {
	if isRequestError(err) {
		return err
	}
	a.logger.ErrorContext(ctx, "Datashare storage failure", "op", op, "table", table,
		"error", logger.MaskPhoneNumbers(err.Error()))
	return coredomain.NewBusinessError(code, "")
}

func (a *Application) publish(ctx context.Context, table, op string, rows int64) {
	data, err := json.Marshal(domain.ChangeEvent{EventID: uuid.NewString(), Table: table, Op: op, Rows: rows})
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to marshal datashare change event", "error", err)
		return
	}
	if err := a.publisher.Publish(ctx, domain.SubjectChanged(table), data); err != nil {
		a.logger.WarnContext(ctx, "Failed to publish datashare change event", "table", table, "op", op, "error", err)
	}
}

func checkValues(table domain.Table, values domain.Values) error {
	if len(values) == 0 {
		return domain.ErrEmptyValues
	}
	return table.CheckColumns(values.Columns())
}

func (a *Application) Query(ctx context.Context, uri string, columns []string, preds *domain.Predicates) (*domain.ResultSet, error) {
	table, err := domain.TableForURI(uri)
	if err != nil {
		return nil, err
	}
	if err := table.CheckColumns(columns); err != nil {
		return nil, err
	}
	rs, err := a.provider.Query(ctx, table, columns, preds)
	if err != nil {
		return nil, a.storageError(ctx, "query", table.Name, err, coredomain.CodeQueryValueFailed)
	}
	return rs, nil
}

// Insert adds one row and returns its id.
func (a *Application) Insert(ctx context.Context, uri string, values domain.Values) (int64, error) {
	table, err := domain.TableForURI(uri)
	if err != nil {
		return 0, err
	}
	if err := checkValues(table, values); err != nil {
		return 0, err
	}
	id, err := a.provider.Insert(ctx, table, values)
	if err != nil {
		return 0, a.storageError(ctx, "insert", table.Name, err, coredomain.CodeSetValueFailed)
	}
	a.publish(ctx, table.Name, "insert", 1)
	return id, nil
}

// Update changes the matching rows and returns how many there were.
func (a *Application) Update(ctx context.Context, uri string, values domain.Values, preds *domain.Predicates) (int64, error) {
	table, err := domain.TableForURI(uri)
	if err != nil {
		return 0, err
	}
	if err := checkValues(table, values); err != nil {
		return 0, err
	}
	n, err := a.provider.Update(ctx, table, values, preds)
	if err != nil {
		return 0, a.storageError(ctx, "update", table.Name, err, coredomain.CodeSetValueFailed)
	}
	if n > 0 {
		a.publish(ctx, table.Name, "update", n)
	}
	return n, nil
}

// Delete removes the matching rows and returns how many there were.
func (a *Application) Delete(ctx context.Context, uri string, preds *domain.Predicates) (int64, error) {
	table, err := domain.TableForURI(uri)
	if err != nil {
		return 0, err
	}
	n, err := a.provider.Delete(ctx, table, preds)
	if err != nil {
		return 0, a.storageError(ctx, "delete", table.Name, err, coredomain.CodeSetValueFailed)
	}
	if n > 0 {
		a.publish(ctx, table.Name, "delete", n)
	}
	return n, nil
}

// BatchInsert inserts all rows or none and returns the number inserted.
func (a *Application) BatchInsert(ctx context.Context, uri string, rows []domain.Values) (int64, error) {
	table, err := domain.TableForURI(uri)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, domain.ErrEmptyValues
	}
	for _, values := range rows {
		if err := checkValues(table, values); err != nil {
			return 0, err
		}
	}
	n, err := a.provider.BatchInsert(ctx, table, rows)
	if err != nil {
		return 0, a.storageError(ctx, "batch_insert", table.Name, err, coredomain.CodeSetValueFailed)
	}
	a.publish(ctx, table.Name, "batch_insert", n)
	return n, nil
}
