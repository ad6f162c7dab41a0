package identity

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"linkup-service/internal/user"
	"linkup-service/pkg/apperrors"
)

// fakeUserRepo enforces the email and external-id unique constraints the way
// the postgres schema does.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User

	findByExternalIDCalls atomic.Int64

	// blockFind, when set, is closed by the test to release lookups, and
	// findEntered signals that the first lookup is in flight.
	blockFind   chan struct{}
	findEntered chan struct{}
	enterOnce   sync.Once
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: user.ConstraintEmail}
		}
		if existing.ExternalID != nil && u.ExternalID != nil && *existing.ExternalID == *u.ExternalID {
			return &pgconn.PgError{Code: "23505", ConstraintName: user.ConstraintExternalID}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByExternalID(ctx context.Context, externalID string) (*user.User, error) {
	r.findByExternalIDCalls.Add(1)
	if r.blockFind != nil {
		r.enterOnce.Do(func() { close(r.findEntered) })
		<-r.blockFind
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ExternalID != nil && *u.ExternalID == externalID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && existing.Email == u.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: user.ConstraintEmail}
		}
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Search(ctx context.Context, query string) ([]user.User, error) {
	return nil, nil
}

func TestSyncCreatesUserOnFirstCall(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, nil, nil)

	u, err := svc.Sync(context.Background(), "auth0|abc", &SyncRequest{
		Email: "john@example.com",
		Name:  "John Doe",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	require.NotNil(t, u.ExternalID)
	assert.Equal(t, "auth0|abc", *u.ExternalID)
	assert.Equal(t, "john@example.com", u.Email)
}

func TestSyncIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	first, err := svc.Sync(ctx, "auth0|abc", &SyncRequest{Email: "john@example.com", Name: "John Doe"})
	require.NoError(t, err)

	second, err := svc.Sync(ctx, "auth0|abc", &SyncRequest{Email: "john@example.com", Name: "John Doe"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSyncRefreshesProfileFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	first, err := svc.Sync(ctx, "auth0|abc", &SyncRequest{Email: "john@example.com", Name: "John Doe"})
	require.NoError(t, err)

	second, err := svc.Sync(ctx, "auth0|abc", &SyncRequest{
		Email: "john.doe@example.com",
		Name:  "Johnny Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "john.doe@example.com", second.Email)
	assert.Equal(t, "Johnny Doe", second.Name)
}

func TestSyncKeepsNameWhenHintOmitsIt(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.Sync(ctx, "auth0|abc", &SyncRequest{Email: "john@example.com", Name: "John Doe"})
	require.NoError(t, err)

	u, err := svc.Sync(ctx, "auth0|abc", &SyncRequest{Email: "john@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", u.Name)
}

func TestSyncMissingExternalID(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil, nil)

	_, err := svc.Sync(context.Background(), "  ", &SyncRequest{Email: "john@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestSyncMissingEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), nil, nil)

	_, err := svc.Sync(context.Background(), "auth0|abc", &SyncRequest{Email: " "})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestSyncEmailTakenByAnotherIdentity(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.Sync(ctx, "auth0|abc", &SyncRequest{Email: "john@example.com"})
	require.NoError(t, err)

	_, err = svc.Sync(ctx, "auth0|xyz", &SyncRequest{Email: "john@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestSyncCreateRaceReadsWinnersRow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	// The winner committed between the loser's lookup and its insert, so the
	// insert hits the external-id constraint and the loser must read the
	// winner's row back instead of failing.
	external := "auth0|abc"
	winner := &user.User{ExternalID: &external, Email: "john@example.com", Name: "John Doe"}
	require.NoError(t, repo.Create(ctx, winner))

	got, err := svc.create(ctx, external, &SyncRequest{Email: "john@example.com"})
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
}

func TestSyncCollapsesConcurrentCalls(t *testing.T) {
	repo := newFakeUserRepo()
	repo.blockFind = make(chan struct{})
	repo.findEntered = make(chan struct{})
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	external := "auth0|abc"
	require.NoError(t, repo.Create(ctx, &user.User{
		ExternalID: &external,
		Email:      "john@example.com",
		Name:       "John Doe",
	}))
	repo.findByExternalIDCalls.Store(0)

	const callers = 5
	results := make(chan error, callers)

	go func() {
		_, err := svc.Sync(ctx, external, &SyncRequest{Email: "john@example.com"})
		results <- err
	}()
	<-repo.findEntered

	// These all arrive while the first lookup is in flight and must share it.
	for i := 1; i < callers; i++ {
		go func() {
			_, err := svc.Sync(ctx, external, &SyncRequest{Email: "john@example.com"})
			results <- err
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(repo.blockFind)

	for i := 0; i < callers; i++ {
		require.NoError(t, <-results)
	}
	assert.Equal(t, int64(1), repo.findByExternalIDCalls.Load())
}
