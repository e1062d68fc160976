package campus_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-campus"
)

func TestMain(m *testing.M) {
	campus.PasswordHashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type MockAccountFinder struct {
	mock.Mock
}

func (m *MockAccountFinder) FindAccount(ctx context.Context, id string) (*campus.Account, error) {
	args := m.Called(ctx, id)
	if acc, ok := args.Get(0).(*campus.Account); ok {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Generate(payload campus.Identity) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

type recordingSink struct {
	events []campus.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event campus.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newAccount(t *testing.T, id, password string) *campus.Account {
	t.Helper()
	hash, err := campus.HashPassword(password)
	require.NoError(t, err)
	return &campus.Account{ID: id, Name: "Administrator", PasswordHash: hash}
}

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 500, time.UTC)
	account := newAccount(t, "admin", "s3cret")

	t.Run("Successful login", func(t *testing.T) {
		accounts := new(MockAccountFinder)
		tokens := new(MockTokenIssuer)
		sink := &recordingSink{}

		accounts.On("FindAccount", ctx, "admin").Return(account, nil).Once()
		tokens.On("Generate", account.Identity()).Return("signed.token.value", nil).Once()

		auth := campus.NewAuthenticator(accounts, tokens, 12*time.Hour).
			WithClock(func() time.Time { return now }).
			WithActivitySink(sink)

		res, err := auth.Login(ctx, "admin", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "signed.token.value", res.Token)
		assert.Equal(t, "Bearer", res.TokenType)
		assert.Equal(t, time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC), res.ExpiresAt)
		assert.Equal(t, campus.Identity{ID: "admin", Name: "Administrator"}, res.Identity)

		require.Len(t, sink.events, 1)
		assert.Equal(t, campus.ActivityEventLoginSuccess, sink.events[0].EventType)
		accounts.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("Unknown account", func(t *testing.T) {
		accounts := new(MockAccountFinder)
		tokens := new(MockTokenIssuer)
		sink := &recordingSink{}

		accounts.On("FindAccount", ctx, "ghost").Return(nil, campus.NotFound("user not found")).Once()

		auth := campus.NewAuthenticator(accounts, tokens, time.Hour).WithActivitySink(sink)
		_, err := auth.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, campus.ErrInvalidCredentials)
		require.Len(t, sink.events, 1)
		assert.Equal(t, campus.ActivityEventLoginFailure, sink.events[0].EventType)
		tokens.AssertNotCalled(t, "Generate", mock.Anything)
	})

	t.Run("Wrong password", func(t *testing.T) {
		accounts := new(MockAccountFinder)
		tokens := new(MockTokenIssuer)

		accounts.On("FindAccount", ctx, "admin").Return(account, nil).Once()

		auth := campus.NewAuthenticator(accounts, tokens, time.Hour)
		_, err := auth.Login(ctx, "admin", "nope")
		assert.ErrorIs(t, err, campus.ErrInvalidCredentials)
		assert.Equal(t, campus.KindUnauthorized, campus.KindOf(err))
		tokens.AssertNotCalled(t, "Generate", mock.Anything)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		accounts := new(MockAccountFinder)
		tokens := new(MockTokenIssuer)

		accounts.On("FindAccount", ctx, "admin").Return(nil, campus.Database(errors.New("conn reset"))).Once()

		auth := campus.NewAuthenticator(accounts, tokens, time.Hour)
		_, err := auth.Login(ctx, "admin", "s3cret")
		assert.Equal(t, campus.KindDatabase, campus.KindOf(err))
	})

	t.Run("Token failure is internal", func(t *testing.T) {
		accounts := new(MockAccountFinder)
		tokens := new(MockTokenIssuer)

		accounts.On("FindAccount", ctx, "admin").Return(account, nil).Once()
		tokens.On("Generate", mock.Anything).Return("", errors.New("signing failed")).Once()

		auth := campus.NewAuthenticator(accounts, tokens, time.Hour)
		_, err := auth.Login(ctx, "admin", "s3cret")
		assert.Equal(t, campus.KindInternal, campus.KindOf(err))
	})
}

func TestActivitySinkFunc(t *testing.T) {
	var got campus.ActivityEvent
	sink := campus.ActivitySinkFunc(func(_ context.Context, e campus.ActivityEvent) error {
		got = e
		return nil
	})
	require.NoError(t, sink.Record(context.Background(), campus.ActivityEvent{UserID: "u1"}))
	assert.Equal(t, "u1", got.UserID)

	var nilSink campus.ActivitySinkFunc
	assert.NoError(t, nilSink.Record(context.Background(), campus.ActivityEvent{}))

	assert.NoError(t, campus.LogActivitySink(nil).Record(context.Background(), campus.ActivityEvent{EventType: campus.ActivityEventLoginSuccess}))
}
