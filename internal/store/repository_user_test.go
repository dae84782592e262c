package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-org-site/internal/logger"
	"github.com/MKhiriev/go-org-site/models"
	"github.com/jackc/pgerrcode"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &userRepository{db: db, logger: logger.Nop(), now: fixedClock}, mock
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	user := models.User{Username: "alice@x.io", Name: "Alice", Role: models.RoleUser, PasswordHash: "hash"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Name, "USER", user.PasswordHash, sqlmock.AnyArg(), fixedNow, fixedNow).
		WillReturnRows(userRow().AddRow(1, user.Username, user.Name, "USER", user.PasswordHash, nil, fixedNow, fixedNow))

	created, err := repo.CreateUser(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Role != models.RoleUser {
		t.Errorf("expected role USER, got %s", created.Role)
	}
	if created.Image != nil {
		t.Errorf("expected nil image, got %v", *created.Image)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "alice@x.io"})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), models.User{Username: "alice@x.io"})
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestCreateUser_RetriesTransientError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(userRow().AddRow(2, "bob@x.io", "Bob", "USER", "hash", nil, fixedNow, fixedNow))

	created, err := repo.CreateUser(context.Background(), models.User{Username: "bob@x.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 2 {
		t.Errorf("expected UserID=2, got %d", created.UserID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFindUserByUsername_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT user_id, username").
		WithArgs("alice@x.io").
		WillReturnRows(userRow().AddRow(1, "alice@x.io", "Alice", "ADMIN", "hash", "/static/a.png", fixedNow, fixedNow))

	found, err := repo.FindUserByUsername(context.Background(), "alice@x.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Role != models.RoleAdmin {
		t.Errorf("expected ADMIN, got %s", found.Role)
	}
	if found.Image == nil || *found.Image != "/static/a.png" {
		t.Errorf("expected image to be scanned, got %v", found.Image)
	}
}

func TestFindUserByUsername_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT user_id, username").
		WithArgs("ghost@x.io").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByUsername(context.Background(), "ghost@x.io")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByID_ScanError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT user_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1))

	_, err := repo.FindUserByID(context.Background(), 1)
	if err == nil {
		t.Fatal("expected scan error, got nil")
	}
}

func TestListUsers(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT .* FROM users ORDER BY user_id").
		WillReturnRows(userRow().
			AddRow(1, "alice@x.io", "Alice", "ADMIN", "h1", nil, fixedNow, fixedNow).
			AddRow(2, "bob@x.io", "Bob", "USER", "h2", nil, fixedNow, fixedNow))

	users, err := repo.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[1].Username != "bob@x.io" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	name := "New"

	mock.ExpectQuery("UPDATE users SET").
		WithArgs(fixedNow, name, int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateUser(context.Background(), 99, models.UserPatch{Name: &name})
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestUpdateUser_UsernameTaken(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	username := "bob@x.io"

	mock.ExpectQuery("UPDATE users SET").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.UpdateUser(context.Background(), 1, models.UserPatch{Username: &username})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestUpdateUser_EmptyPatchReadsUser(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT user_id").
		WithArgs(int64(1)).
		WillReturnRows(userRow().AddRow(1, "alice@x.io", "Alice", "USER", "h", nil, fixedNow, fixedNow))

	user, err := repo.UpdateUser(context.Background(), 1, models.UserPatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UserID != 1 {
		t.Errorf("expected user 1, got %d", user.UserID)
	}
}

func TestDeleteUser_RetiresAvatarsInSameTx(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE avatars SET state").
		WithArgs("DELETED", fixedNow, "ACTIVE", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.DeleteUser(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteUser_NotFoundRollsBack(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE avatars").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteUser(context.Background(), 4)
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
