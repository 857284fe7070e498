package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ums/internal/common"
	"github.com/dmitrijs2005/ums/internal/dbx"
	"github.com/dmitrijs2005/ums/internal/server/auth"
	"github.com/dmitrijs2005/ums/internal/server/config"
	"github.com/dmitrijs2005/ums/internal/server/models"
	rolesrepo "github.com/dmitrijs2005/ums/internal/server/repositories/roles"
	usersrepo "github.com/dmitrijs2005/ums/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	byUsername map[string]*models.User
	byID       map[int64]*models.User

	insertedID    int64
	insertErr     error
	insertedUser  *models.User
	insertedHash  string
	assignedRoles []int64
	assignErr     error

	updateErr error

	deleteRemoved bool
	deleteErr     error

	listOut []*models.User
	listErr error
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) Insert(ctx context.Context, user *models.User, passwordHash string) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.insertedUser = user
	f.insertedHash = passwordHash
	return f.insertedID, nil
}

func (f *fakeUsersRepo) AssignRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assignedRoles = roleIDs
	return nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, user *models.User) error {
	return f.updateErr
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return f.deleteRemoved, f.deleteErr
}

type fakeRolesRepo struct {
	ids    []int64
	idsErr error

	listOut []*models.Role
	listErr error

	requestedNames []string
}

func (f *fakeRolesRepo) IDsByName(ctx context.Context, names []string) ([]int64, error) {
	f.requestedNames = names
	return f.ids, f.idsErr
}

func (f *fakeRolesRepo) List(ctx context.Context) ([]*models.Role, error) {
	return f.listOut, f.listErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRolesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Roles(db dbx.DBTX) rolesrepo.Repository      { return m.r }

func newAuthService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *AuthService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewAuthService(db, rm, cfg)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	return h
}

// --- tests ---

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash := mustHash(t, "s3cret")
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byUsername: map[string]*models.User{
			"alice": {ID: 7, Username: "alice", PasswordHash: hash, StatusID: models.StatusActive},
		},
		byID: map[int64]*models.User{
			7: {ID: 7, Username: "alice", StatusID: models.StatusActive, StatusName: "active", Roles: "admin,manager"},
		},
	}}
	s := newAuthService(t, db, rm)

	result, err := s.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.User.Roles != "admin,manager" {
		t.Fatalf("expected roles from the view projection, got %+v", result.User)
	}
	if result.User.PasswordHash != "" {
		t.Fatalf("login response must not carry a password hash")
	}

	claims, err := auth.ParseToken(result.Token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Subject != "alice" || claims.UserID != 7 || claims.Roles != "admin,manager" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash := mustHash(t, "right")
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byUsername: map[string]*models.User{
			"alice": {ID: 7, Username: "alice", PasswordHash: hash, StatusID: models.StatusActive},
		},
	}}
	s := newAuthService(t, db, rm)

	_, errWrongPass := s.Login(context.Background(), "alice", "wrong")
	_, errNoUser := s.Login(context.Background(), "nonexistent", "anything")

	if !errors.Is(errWrongPass, common.ErrorInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrorInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errNoUser, common.ErrorInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrorInvalidCredentials, got %v", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Fatalf("error shapes must be identical: %q vs %q", errWrongPass, errNoUser)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash := mustHash(t, "s3cret")
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byUsername: map[string]*models.User{
			"bob": {ID: 8, Username: "bob", PasswordHash: hash, StatusID: models.StatusInactive},
		},
	}}
	s := newAuthService(t, db, rm)

	_, err := s.Login(context.Background(), "bob", "s3cret")
	if !errors.Is(err, common.ErrorAccountInactive) {
		t.Fatalf("expected ErrorAccountInactive, got %v", err)
	}
}

func TestResolveSession_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byID: map[int64]*models.User{
			7: {ID: 7, Username: "alice", StatusID: models.StatusActive, Roles: "admin"},
		},
	}}
	s := newAuthService(t, db, rm)

	token, err := auth.GenerateToken("alice", 7, "admin", []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	user, err := s.ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveSession error: %v", err)
	}
	if user.ID != 7 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestResolveSession_InvalidToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.ResolveSession(context.Background(), "not.a.jwt")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestResolveSession_OrphanedToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	// validly signed token, but the account is gone
	rm := &fakeRepoManager{u: &fakeUsersRepo{byID: map[int64]*models.User{}}}
	s := newAuthService(t, db, rm)

	token, err := auth.GenerateToken("deleted", 99, "", []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = s.ResolveSession(context.Background(), token)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound for orphaned token, got %v", err)
	}
}

func TestResolveSession_ExpiredToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		byID: map[int64]*models.User{7: {ID: 7, Username: "alice"}},
	}}
	s := newAuthService(t, db, rm)

	token, err := auth.GenerateToken("alice", 7, "", []byte("k"), -time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = s.ResolveSession(context.Background(), token)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized for expired token, got %v", err)
	}
}
