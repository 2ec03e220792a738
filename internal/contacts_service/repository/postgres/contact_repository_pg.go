package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aradsms/contacts_services/internal/contacts_service/domain"
	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	"github.com/aradsms/contacts_services/internal/platform/database"
)

const contactColumns = `id, contact_key, data`

type PgContactRepository struct {
	db     database.Querier
	logger *slog.Logger
}

func NewPgContactRepository(db database.Querier, logger *slog.Logger) *PgContactRepository {
	return &PgContactRepository{db: db, logger: logger}
}

// holderClause renders the holder conditions starting at placeholder $next.
// bundleName matches account_type, displayName account_name, holderId account_id.
func holderClause(h *coredomain.Holder, next int) (string, []any) {
	if h.IsZero() {
		return "", nil
	}
	var (
		conds []string
		args  []any
	)
	if h.BundleName != "" {
		conds = append(conds, fmt.Sprintf("account_type = $%d", next+len(args)))
		args = append(args, h.BundleName)
	}
	if h.DisplayName != "" {
		conds = append(conds, fmt.Sprintf("account_name = $%d", next+len(args)))
		args = append(args, h.DisplayName)
	}
	if h.HolderID > 0 {
		conds = append(conds, fmt.Sprintf("account_id = $%d", next+len(args)))
		args = append(args, h.HolderID)
	}
	return " AND " + strings.Join(conds, " AND "), args
}

// storedData is the JSONB payload: the contact minus the columns kept separately.
func storedData(c *coredomain.Contact) ([]byte, error) {
	cp := *c
	cp.ID, cp.Key, cp.ContactAttributes = 0, "", nil
	return json.Marshal(cp)
}

func scanContact(row pgx.Row) (*coredomain.Contact, error) {
	var (
		id   int64
		key  string
		data []byte
	)
	if err := row.Scan(&id, &key, &data); err != nil {
		return nil, err
	}
	c := &coredomain.Contact{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decode contact %d: %w", id, err)
		}
	}
	c.ID, c.Key = id, key
	return c, nil
}

func (r *PgContactRepository) Create(ctx context.Context, sc *domain.StoredContact) (int64, error) {
	query := `
		INSERT INTO contacts (contact_key, account_type, account_name, account_id, is_my_card, is_local, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`
	data, err := storedData(&sc.Contact)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error marshaling contact data", "error", err, "key", sc.Contact.Key)
		return 0, err
	}

	var id int64
	err = r.db.QueryRow(ctx, query,
		sc.Contact.Key, sc.Holder.BundleName, sc.Holder.DisplayName, sc.Holder.HolderID,
		sc.IsMyCard, sc.IsLocal, data, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.WarnContext(ctx, "Duplicate contact key", "key", sc.Contact.Key)
			return 0, domain.ErrDuplicateKey
		}
		r.logger.ErrorContext(ctx, "Error creating contact", "error", err, "key", sc.Contact.Key)
		return 0, err
	}
	sc.Contact.ID = id
	r.logger.InfoContext(ctx, "Contact created successfully", "contact_id", id)
	return id, nil
}

func (r *PgContactRepository) Update(ctx context.Context, c *coredomain.Contact) error {
	query := `UPDATE contacts SET data = $1, updated_at = $2 WHERE id = $3`
	data, err := storedData(c)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error marshaling contact data for update", "error", err, "contact_id", c.ID)
		return err
	}
	tag, err := r.db.Exec(ctx, query, data, time.Now().UTC(), c.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating contact", "error", err, "contact_id", c.ID)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Contact not found for update", "contact_id", c.ID)
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) DeleteByKey(ctx context.Context, key string) (int64, error) {
	query := `DELETE FROM contacts WHERE contact_key = $1 RETURNING id`
	var id int64
	if err := r.db.QueryRow(ctx, query, key).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Contact not found for delete", "key", key)
			return 0, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error deleting contact", "error", err, "key", key)
		return 0, err
	}
	r.logger.InfoContext(ctx, "Contact deleted successfully", "contact_id", id)
	return id, nil
}

func (r *PgContactRepository) GetByID(ctx context.Context, id int64) (*domain.StoredContact, error) {
	query := `
		SELECT id, contact_key, data, account_type, account_name, account_id, is_my_card, is_local
		FROM contacts
		WHERE id = $1
	`
	var (
		sc   domain.StoredContact
		data []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sc.Contact.ID, &sc.Contact.Key, &data,
		&sc.Holder.BundleName, &sc.Holder.DisplayName, &sc.Holder.HolderID, &sc.IsMyCard, &sc.IsLocal,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting contact by ID", "error", err, "contact_id", id)
		return nil, err
	}
	if len(data) > 0 {
		key := sc.Contact.Key
		if err := json.Unmarshal(data, &sc.Contact); err != nil {
			r.logger.ErrorContext(ctx, "Error unmarshaling contact data", "error", err, "contact_id", id)
			return nil, err
		}
		sc.Contact.ID, sc.Contact.Key = id, key
	}
	return &sc, nil
}

func (r *PgContactRepository) GetByKey(ctx context.Context, key string, holder *coredomain.Holder) (*coredomain.Contact, error) {
	cond, hargs := holderClause(holder, 2)
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_key = $1` + cond
	c, err := scanContact(r.db.QueryRow(ctx, query, append([]any{key}, hargs...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting contact by key", "error", err, "key", key)
		return nil, err
	}
	return c, nil
}

func (r *PgContactRepository) List(ctx context.Context, holder *coredomain.Holder) ([]*coredomain.Contact, error) {
	cond, hargs := holderClause(holder, 1)
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE TRUE` + cond + ` ORDER BY id`
	return r.list(ctx, "list", query, hargs...)
}

func (r *PgContactRepository) ListByEmail(ctx context.Context, email string, holder *coredomain.Holder) ([]*coredomain.Contact, error) {
	needle, err := json.Marshal([]map[string]string{{"email": email}})
	if err != nil {
		return nil, err
	}
	cond, hargs := holderClause(holder, 2)
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE data->'emails' @> $1::jsonb` + cond + ` ORDER BY id`
	return r.list(ctx, "list_by_email", query, append([]any{needle}, hargs...)...)
}

func (r *PgContactRepository) ListByPhoneNumber(ctx context.Context, number string, holder *coredomain.Holder) ([]*coredomain.Contact, error) {
	needle, err := json.Marshal([]map[string]string{{"phoneNumber": number}})
	if err != nil {
		return nil, err
	}
	cond, hargs := holderClause(holder, 2)
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE data->'phoneNumbers' @> $1::jsonb` + cond + ` ORDER BY id`
	return r.list(ctx, "list_by_phone", query, append([]any{needle}, hargs...)...)
}

func (r *PgContactRepository) list(ctx context.Context, op, query string, args ...any) ([]*coredomain.Contact, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error querying contacts", "op", op, "error", err)
		return nil, err
	}
	defer rows.Close()

	contacts := []*coredomain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning contact row", "op", op, "error", err)
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating contact rows", "op", op, "error", err)
		return nil, err
	}
	return contacts, nil
}

func (r *PgContactRepository) KeyByID(ctx context.Context, id int64, holder *coredomain.Holder) (string, error) {
	cond, hargs := holderClause(holder, 2)
	query := `SELECT contact_key FROM contacts WHERE id = $1` + cond
	var key string
	if err := r.db.QueryRow(ctx, query, append([]any{id}, hargs...)...).Scan(&key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting contact key", "error", err, "contact_id", id)
		return "", err
	}
	return key, nil
}

func (r *PgContactRepository) MyCard(ctx context.Context) (*coredomain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE is_my_card = TRUE ORDER BY id LIMIT 1`
	c, err := scanContact(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting my card", "error", err)
		return nil, err
	}
	return c, nil
}

// SetMyCard marks contact id as the owner's card and clears the flag on any other row.
func (r *PgContactRepository) SetMyCard(ctx context.Context, id int64) error {
	query := `
		UPDATE contacts SET is_my_card = (id = $1), updated_at = $2
		WHERE (is_my_card OR id = $1) AND EXISTS (SELECT 1 FROM contacts WHERE id = $1)`
	tag, err := r.db.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		r.logger.ErrorContext(ctx, "Error setting my card", "error", err, "contact_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Contact not found for my card", "contact_id", id)
		return domain.ErrNotFound
	}
	r.logger.InfoContext(ctx, "My card set", "contact_id", id)
	return nil
}

func (r *PgContactRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		r.logger.ErrorContext(ctx, "Error counting contacts", "error", err)
		return 0, err
	}
	return n, nil
}
