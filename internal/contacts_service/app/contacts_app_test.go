package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aradsms/contacts_services/internal/contacts_service/domain"
	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
)

// --- Mocks ---

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, sc *domain.StoredContact) (int64, error) {
	args := m.Called(ctx, sc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, c *coredomain.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) DeleteByKey(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*domain.StoredContact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredContact), args.Error(1)
}

func (m *MockContactRepository) GetByKey(ctx context.Context, key string, holder *coredomain.Holder) (*coredomain.Contact, error) {
	args := m.Called(ctx, key, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coredomain.Contact), args.Error(1)
}

func (m *MockContactRepository) contacts(args mock.Arguments) ([]*coredomain.Contact, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*coredomain.Contact), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, holder *coredomain.Holder) ([]*coredomain.Contact, error) {
	return m.contacts(m.Called(ctx, holder))
}

func (m *MockContactRepository) ListByEmail(ctx context.Context, email string, holder *coredomain.Holder) ([]*coredomain.Contact, error) {
	return m.contacts(m.Called(ctx, email, holder))
}

func (m *MockContactRepository) ListByPhoneNumber(ctx context.Context, number string, holder *coredomain.Holder) ([]*coredomain.Contact, error) {
	return m.contacts(m.Called(ctx, number, holder))
}

func (m *MockContactRepository) KeyByID(ctx context.Context, id int64, holder *coredomain.Holder) (string, error) {
	args := m.Called(ctx, id, holder)
	return args.String(0), args.Error(1)
}

func (m *MockContactRepository) MyCard(ctx context.Context) (*coredomain.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coredomain.Contact), args.Error(1)
}

func (m *MockContactRepository) SetMyCard(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContactRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) List(ctx context.Context, holder *coredomain.Holder) ([]coredomain.Group, error) {
	args := m.Called(ctx, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]coredomain.Group), args.Error(1)
}

type MockHolderRepository struct {
	mock.Mock
}

func (m *MockHolderRepository) List(ctx context.Context) ([]coredomain.Holder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]coredomain.Holder), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return m.Called(ctx, subject, data).Error(0)
}

// --- Test Setup ---

type contactsAppTestComponents struct {
	app       *Application
	repo      *MockContactRepository
	groups    *MockGroupRepository
	holders   *MockHolderRepository
	publisher *MockPublisher
}

func setupContactsAppTest(t *testing.T) contactsAppTestComponents {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := contactsAppTestComponents{
		repo:      new(MockContactRepository),
		groups:    new(MockGroupRepository),
		holders:   new(MockHolderRepository),
		publisher: new(MockPublisher),
	}
	c.app = NewApplication(c.repo, c.groups, c.holders, c.publisher, logger)
	return c
}

func decodeEvent(t *testing.T, data []byte) domain.ChangeEvent {
	t.Helper()
	var ev domain.ChangeEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestNewContactKey(t *testing.T) {
	k1, k2 := newContactKey(), newContactKey()
	assert.Len(t, k1, 16)
	assert.Regexp(t, `^[0-9a-f]{16}$`, k1)
	assert.NotEqual(t, k1, k2)
}

func TestApplication_AddContact(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		holder := &coredomain.Holder{BundleName: "com.example.app"}
		input := &coredomain.Contact{ID: 99, Name: &coredomain.Name{FullName: "Ada"}}

		comps.repo.On("Create", ctx, mock.MatchedBy(func(sc *domain.StoredContact) bool {
			return sc.Contact.ID == 0 && len(sc.Contact.Key) == 16 &&
				sc.Contact.Name.FullName == "Ada" && sc.Holder == *holder && !sc.IsLocal
		})).Return(int64(12), nil).Once()
		comps.publisher.On("Publish", ctx, domain.SubjectContactsChanged, mock.Anything).Return(nil).Once()

		id, err := comps.app.AddContact(ctx, input, holder)

		require.NoError(t, err)
		assert.Equal(t, int64(12), id)
		assert.Equal(t, int64(99), input.ID, "input must not be modified")
		ev := decodeEvent(t, comps.publisher.Calls[0].Arguments.Get(2).([]byte))
		assert.Equal(t, domain.ActionAdded, ev.Action)
		assert.Equal(t, int64(12), ev.ContactID)
		assert.NotEmpty(t, ev.EventID)
		comps.repo.AssertExpectations(t)
	})

	t.Run("LocalWhenNoHolder", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("Create", ctx, mock.MatchedBy(func(sc *domain.StoredContact) bool { return sc.IsLocal })).
			Return(int64(1), nil).Once()
		comps.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)

		_, err := comps.app.AddContact(ctx, &coredomain.Contact{}, nil)
		require.NoError(t, err)
		comps.repo.AssertExpectations(t)
	})

	t.Run("RetriesOnceOnDuplicateKey", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("Create", ctx, mock.Anything).Return(int64(0), domain.ErrDuplicateKey).Once()
		comps.repo.On("Create", ctx, mock.Anything).Return(int64(3), nil).Once()
		comps.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)

		id, err := comps.app.AddContact(ctx, &coredomain.Contact{}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		comps.repo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("StoreFailureIsSetValueFailed", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("Create", ctx, mock.Anything).Return(int64(0), errors.New("disk full")).Once()

		_, err := comps.app.AddContact(ctx, &coredomain.Contact{}, nil)
		assert.ErrorIs(t, err, coredomain.ErrSetValueFailed)
		comps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PublishFailureIsNotFatal", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("Create", ctx, mock.Anything).Return(int64(5), nil).Once()
		comps.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("nats down")).Once()

		id, err := comps.app.AddContact(ctx, &coredomain.Contact{}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
	})

	t.Run("NilContact", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		_, err := comps.app.AddContact(ctx, nil, nil)
		assert.ErrorIs(t, err, coredomain.ErrInvalidParameter)
	})
}

func TestApplication_DeleteContact(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("DeleteByKey", ctx, "k1").Return(int64(1), nil).Once()
		comps.publisher.On("Publish", ctx, domain.SubjectContactsChanged, mock.Anything).Return(nil).Once()

		require.NoError(t, comps.app.DeleteContact(ctx, "k1"))
		ev := decodeEvent(t, comps.publisher.Calls[0].Arguments.Get(2).([]byte))
		assert.Equal(t, domain.ActionDeleted, ev.Action)
		assert.Equal(t, "k1", ev.Key)
	})

	t.Run("NotFound", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("DeleteByKey", ctx, "k2").Return(int64(0), domain.ErrNotFound).Once()
		assert.ErrorIs(t, comps.app.DeleteContact(ctx, "k2"), domain.ErrNotFound)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("DeleteByKey", ctx, "k3").Return(int64(0), errors.New("boom")).Once()
		assert.ErrorIs(t, comps.app.DeleteContact(ctx, "k3"), coredomain.ErrSetValueFailed)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		assert.ErrorIs(t, comps.app.DeleteContact(ctx, ""), coredomain.ErrInvalidParameter)
		comps.repo.AssertNotCalled(t, "DeleteByKey", mock.Anything, mock.Anything)
	})
}

func TestApplication_UpdateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("MergesOnlyRequestedAttributes", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		stored := &domain.StoredContact{Contact: coredomain.Contact{
			ID: 4, Key: "k4",
			Name:   &coredomain.Name{FullName: "Old"},
			Emails: []coredomain.Email{{Email: "old@example.com"}},
		}}
		comps.repo.On("GetByID", ctx, int64(4)).Return(stored, nil).Once()
		comps.repo.On("Update", ctx, mock.MatchedBy(func(c *coredomain.Contact) bool {
			return c.Name.FullName == "New" && c.Emails[0].Email == "old@example.com"
		})).Return(nil).Once()
		comps.publisher.On("Publish", ctx, domain.SubjectContactsChanged, mock.Anything).Return(nil).Once()

		err := comps.app.UpdateContact(ctx,
			&coredomain.Contact{ID: 4, Name: &coredomain.Name{FullName: "New"}},
			&coredomain.ContactAttributes{Attributes: []coredomain.Attribute{coredomain.AttrName}})

		require.NoError(t, err)
		comps.repo.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		assert.ErrorIs(t, comps.app.UpdateContact(ctx, &coredomain.Contact{}, nil), coredomain.ErrInvalidParameter)
		assert.ErrorIs(t, comps.app.UpdateContact(ctx, nil, nil), coredomain.ErrInvalidParameter)
	})

	t.Run("NotFound", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByID", ctx, int64(8)).Return(nil, domain.ErrNotFound).Once()
		assert.ErrorIs(t, comps.app.UpdateContact(ctx, &coredomain.Contact{ID: 8}, nil), domain.ErrNotFound)
	})

	t.Run("WriteFailure", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByID", ctx, int64(9)).Return(&domain.StoredContact{Contact: coredomain.Contact{ID: 9}}, nil).Once()
		comps.repo.On("Update", ctx, mock.Anything).Return(errors.New("boom")).Once()
		assert.ErrorIs(t, comps.app.UpdateContact(ctx, &coredomain.Contact{ID: 9}, nil), coredomain.ErrSetValueFailed)
	})
}

func TestApplication_QueryContact(t *testing.T) {
	ctx := context.Background()
	full := &coredomain.Contact{
		ID: 1, Key: "k1",
		Name:         &coredomain.Name{FullName: "Ada"},
		PhoneNumbers: []coredomain.PhoneNumber{{PhoneNumber: "5550100"}},
	}

	t.Run("ProjectsAttributes", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByKey", ctx, "k1", (*coredomain.Holder)(nil)).Return(full, nil).Once()
		attrs := &coredomain.ContactAttributes{Attributes: []coredomain.Attribute{coredomain.AttrPhone}}

		c, err := comps.app.QueryContact(ctx, "k1", nil, attrs)

		require.NoError(t, err)
		assert.Nil(t, c.Name)
		assert.Equal(t, full.PhoneNumbers, c.PhoneNumbers)
		assert.Equal(t, "k1", c.Key)
	})

	t.Run("NotFoundIsNil", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByKey", ctx, "zz", (*coredomain.Holder)(nil)).Return(nil, domain.ErrNotFound).Once()

		c, err := comps.app.QueryContact(ctx, "zz", nil, nil)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("ReadFailure", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByKey", ctx, "k1", (*coredomain.Holder)(nil)).Return(nil, errors.New("boom")).Once()

		_, err := comps.app.QueryContact(ctx, "k1", nil, nil)
		assert.ErrorIs(t, err, coredomain.ErrQueryValueFailed)
	})
}

func TestApplication_ListQueries(t *testing.T) {
	ctx := context.Background()
	holder := &coredomain.Holder{HolderID: 2}
	list := []*coredomain.Contact{{ID: 1, Emails: []coredomain.Email{{Email: "a@example.com"}}}}

	t.Run("QueryContacts", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("List", ctx, holder).Return(list, nil).Once()
		got, err := comps.app.QueryContacts(ctx, holder, nil)
		require.NoError(t, err)
		assert.Equal(t, list, got)
	})

	t.Run("QueryContactsByEmail", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("ListByEmail", ctx, "a@example.com", (*coredomain.Holder)(nil)).Return(list, nil).Once()
		got, err := comps.app.QueryContactsByEmail(ctx, "a@example.com", nil, nil)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		_, err = comps.app.QueryContactsByEmail(ctx, "", nil, nil)
		assert.ErrorIs(t, err, coredomain.ErrInvalidParameter)
	})

	t.Run("QueryContactsByPhoneNumberFailure", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("ListByPhoneNumber", ctx, "5550100", (*coredomain.Holder)(nil)).Return(nil, errors.New("boom")).Once()
		_, err := comps.app.QueryContactsByPhoneNumber(ctx, "5550100", nil, nil)
		assert.ErrorIs(t, err, coredomain.ErrQueryValueFailed)
	})

	t.Run("QueryGroupsAndHolders", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.groups.On("List", ctx, holder).Return([]coredomain.Group{{GroupID: 1, Title: "Family"}}, nil).Once()
		comps.holders.On("List", ctx).Return(nil, errors.New("boom")).Once()

		groups, err := comps.app.QueryGroups(ctx, holder)
		require.NoError(t, err)
		assert.Equal(t, "Family", groups[0].Title)

		_, err = comps.app.QueryHolders(ctx)
		assert.ErrorIs(t, err, coredomain.ErrQueryValueFailed)
	})
}

func TestApplication_KeyCardAndFlags(t *testing.T) {
	ctx := context.Background()

	t.Run("QueryKey", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("KeyByID", ctx, int64(1), (*coredomain.Holder)(nil)).Return("k1", nil).Once()
		comps.repo.On("KeyByID", ctx, int64(2), (*coredomain.Holder)(nil)).Return("", domain.ErrNotFound).Once()

		key, err := comps.app.QueryKey(ctx, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, "k1", key)

		key, err = comps.app.QueryKey(ctx, 2, nil)
		require.NoError(t, err)
		assert.Empty(t, key)

		_, err = comps.app.QueryKey(ctx, 0, nil)
		assert.ErrorIs(t, err, coredomain.ErrInvalidParameter)
	})

	t.Run("QueryMyCard", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("MyCard", ctx).Return(nil, domain.ErrNotFound).Once()
		card, err := comps.app.QueryMyCard(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, card)
	})

	t.Run("IsLocalAndIsMyCard", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByID", ctx, int64(3)).Return(&domain.StoredContact{IsLocal: true, IsMyCard: false}, nil).Twice()
		comps.repo.On("GetByID", ctx, int64(4)).Return(nil, domain.ErrNotFound).Once()

		local, err := comps.app.IsLocalContact(ctx, 3)
		require.NoError(t, err)
		assert.True(t, local)

		mine, err := comps.app.IsMyCard(ctx, 3)
		require.NoError(t, err)
		assert.False(t, mine)

		local, err = comps.app.IsLocalContact(ctx, 4)
		require.NoError(t, err)
		assert.False(t, local)
	})

	t.Run("SetMyCard", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByID", ctx, int64(3)).Return(&domain.StoredContact{Contact: coredomain.Contact{ID: 3, Key: "k3"}}, nil).Once()
		comps.repo.On("SetMyCard", ctx, int64(3)).Return(nil).Once()
		comps.publisher.On("Publish", ctx, domain.SubjectContactsChanged, mock.Anything).Return(nil).Once()

		require.NoError(t, comps.app.SetMyCard(ctx, 3))
		comps.repo.AssertExpectations(t)
		comps.publisher.AssertExpectations(t)
	})

	t.Run("SetMyCardMissingContact", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("GetByID", ctx, int64(4)).Return(nil, domain.ErrNotFound).Once()

		assert.ErrorIs(t, comps.app.SetMyCard(ctx, 4), domain.ErrNotFound)
		comps.repo.AssertNotCalled(t, "SetMyCard", mock.Anything, mock.Anything)

		assert.ErrorIs(t, comps.app.SetMyCard(ctx, 0), coredomain.ErrInvalidParameter)
	})

	t.Run("QueryContactsCount", func(t *testing.T) {
		comps := setupContactsAppTest(t)
		comps.repo.On("Count", ctx).Return(int64(7), nil).Once()
		n, err := comps.app.QueryContactsCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	})
}
