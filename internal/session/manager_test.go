package session

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-auth/internal/model"
	"github.com/iliyamo/restaurant-auth/internal/repository"
	"github.com/iliyamo/restaurant-auth/internal/utils"
)

const testSecret = "test-refresh-secret"

// fakeStore is an in-memory TokenStore tracking live record ids.
type fakeStore struct {
	nextID  uint64
	records map[uint64]uint64 // record id -> user id
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[uint64]uint64{}}
}

func (s *fakeStore) Create(_ context.Context, userID uint64) (model.RefreshToken, error) {
	if s.err != nil {
		return model.RefreshToken{}, s.err
	}
	s.nextID++
	s.records[s.nextID] = userID
	return model.RefreshToken{
		ID:        s.nextID,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(365 * 24 * time.Hour),
	}, nil
}

func (s *fakeStore) DeleteByID(_ context.Context, id uint64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.records[id]
	delete(s.records, id)
	return ok, nil
}

// fakeUsers resolves ids from a fixed map, standing in for UserRepo.
type fakeUsers struct {
	byID map[uint64]model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func testManager(t *testing.T, store TokenStore, users UserLoader) *Manager {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := utils.NewSigner(key, testSecret, time.Hour, 365*24*time.Hour)
	return NewManager(signer, store, users, "localhost")
}

func refreshTokenID(t *testing.T, raw string) uint64 {
	t.Helper()
	claims, err := utils.ParseRefreshToken([]byte(testSecret), raw)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	return claims.TokenID
}

func TestIssuePersistsRecordAndEmbedsID(t *testing.T) {
	store := newFakeStore()
	u := model.User{ID: 1, Role: model.RoleCustomer}
	m := testManager(t, store, &fakeUsers{byID: map[uint64]model.User{1: u}})

	pair, err := m.Issue(context.Background(), u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("issued pair has empty tokens")
	}

	id := refreshTokenID(t, pair.Refresh)
	if owner, ok := store.records[id]; !ok || owner != 1 {
		t.Errorf("embedded record id %d not live for user 1", id)
	}
}

func TestIssueFailsOnInvariantViolation(t *testing.T) {
	store := newFakeStore()
	// A manager with no restaurant assignment cannot be signed.
	u := model.User{ID: 2, Role: model.RoleManager}
	m := testManager(t, store, &fakeUsers{byID: map[uint64]model.User{2: u}})

	if _, err := m.Issue(context.Background(), u); !errors.Is(err, utils.ErrClaimsInvariant) {
		t.Fatalf("Issue err = %v, want ErrClaimsInvariant", err)
	}
	// The orphaned record is acceptable; the issuance still failed.
	if len(store.records) != 1 {
		t.Errorf("records = %d, want the single orphan", len(store.records))
	}
}

func TestRotateDestroysOldAndIssuesNew(t *testing.T) {
	store := newFakeStore()
	users := &fakeUsers{byID: map[uint64]model.User{1: {ID: 1, Role: model.RoleCustomer}}}
	m := testManager(t, store, users)

	first, err := m.Issue(context.Background(), users.byID[1])
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	oldID := refreshTokenID(t, first.Refresh)

	_, second, err := m.Rotate(context.Background(), oldID, 1)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	newID := refreshTokenID(t, second.Refresh)

	if newID == oldID {
		t.Error("rotation reused the old record id")
	}
	if _, live := store.records[oldID]; live {
		t.Error("old record still live after rotation")
	}
	if _, live := store.records[newID]; !live {
		t.Error("new record not live after rotation")
	}
}

func TestRotateRederivesClaimsFromFreshLookup(t *testing.T) {
	store := newFakeStore()
	users := &fakeUsers{byID: map[uint64]model.User{1: {ID: 1, Role: model.RoleCustomer}}}
	m := testManager(t, store, users)

	first, err := m.Issue(context.Background(), users.byID[1])
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Promote the user to manager between issuance and rotation.
	rid := uint64(5)
	users.byID[1] = model.User{ID: 1, Role: model.RoleManager, RestaurantID: &rid}

	_, pair, err := m.Rotate(context.Background(), refreshTokenID(t, first.Refresh), 1)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	claims, err := utils.ParseRefreshToken([]byte(testSecret), pair.Refresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if claims.Role != model.RoleManager || claims.RestaurantID != "5" {
		t.Errorf("rotated claims = role %q restaurantId %q, want fresh manager claims", claims.Role, claims.RestaurantID)
	}
}

func TestRotateUnknownUserIsNotFound(t *testing.T) {
	store := newFakeStore()
	m := testManager(t, store, &fakeUsers{byID: map[uint64]model.User{}})

	rec, _ := store.Create(context.Background(), 99)
	if _, _, err := m.Rotate(context.Background(), rec.ID, 99); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Rotate err = %v, want ErrNotFound", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	m := testManager(t, store, &fakeUsers{byID: map[uint64]model.User{}})

	rec, _ := store.Create(context.Background(), 1)
	if err := m.Revoke(context.Background(), rec.ID); err != nil {
		t.Fatalf("first Revoke: %v", err)
	}
	if err := m.Revoke(context.Background(), rec.ID); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
}

func TestCookies(t *testing.T) {
	store := newFakeStore()
	u := model.User{ID: 1, Role: model.RoleCustomer}
	m := testManager(t, store, &fakeUsers{byID: map[uint64]model.User{1: u}})

	pair, err := m.Issue(context.Background(), u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	access, refresh := m.Cookies(pair)
	if access.Name != AccessCookie || refresh.Name != RefreshCookie {
		t.Errorf("cookie names = %q, %q", access.Name, refresh.Name)
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Error("cookies must be httpOnly")
	}
	if access.Domain != "localhost" || refresh.Domain != "localhost" {
		t.Error("cookies must carry the configured domain")
	}
	// Max-age tracks token lifetime: about an hour vs about a year.
	if access.MaxAge < 3500 || access.MaxAge > 3600 {
		t.Errorf("access max-age = %d, want about 3600", access.MaxAge)
	}
	if refresh.MaxAge < 364*24*3600 {
		t.Errorf("refresh max-age = %d, want about a year", refresh.MaxAge)
	}

	clearA, clearR := m.ClearCookies()
	if clearA.MaxAge >= 0 || clearR.MaxAge >= 0 {
		t.Error("clearing cookies must expire them")
	}
	if clearA.Value != "" || clearR.Value != "" {
		t.Error("cleared cookies must be empty")
	}
}
