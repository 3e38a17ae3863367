package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core/user"
)

const userColumns = `id, email, name, surname, password_hash, grade, country, curriculum, role, remote_account_id, created_at`

type userRow struct {
	ID              int         `db:"id"`
	Email           string      `db:"email"`
	Name            string      `db:"name"`
	Surname         string      `db:"surname"`
	PasswordHash    []byte      `db:"password_hash"`
	Grade           int         `db:"grade"`
	Country         string      `db:"country"`
	Curriculum      string      `db:"curriculum"`
	Role            string      `db:"role"`
	RemoteAccountID null.String `db:"remote_account_id"`
	CreatedAt       time.Time   `db:"created_at"`
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:              usr.ID,
		Email:           usr.Email,
		Name:            usr.Name,
		Surname:         usr.Surname,
		PasswordHash:    usr.PasswordHash,
		Grade:           usr.Grade,
		Country:         usr.Country,
		Curriculum:      usr.Curriculum,
		Role:            usr.Role,
		RemoteAccountID: null.NewString(usr.RemoteAccountID, usr.RemoteAccountID != ""),
		CreatedAt:       usr.CreatedAt.UTC(),
	}
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:              r.ID,
		Email:           r.Email,
		Name:            r.Name,
		Surname:         r.Surname,
		PasswordHash:    r.PasswordHash,
		Grade:           r.Grade,
		Country:         r.Country,
		Curriculum:      r.Curriculum,
		Role:            r.Role,
		RemoteAccountID: r.RemoteAccountID.String,
		CreatedAt:       r.CreatedAt.UTC(),
	}
}

type userRepository struct {
	exec Executor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec Executor) *userRepository {
	return &userRepository{exec: exec}
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := sqlx.GetContext(ctx, repo.exec, &exists, q, email); err != nil {
		return wrapErr(err, "checking user uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := toUserRow(usr)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	q := `INSERT INTO users (email, name, surname, password_hash, grade, country, curriculum, role, remote_account_id, created_at)
		VALUES (:email, :name, :surname, :password_hash, :grade, :country, :curriculum, :role, :remote_account_id, :created_at)
		RETURNING id`
	q, args, err := sqlx.Named(q, row)
	if err != nil {
		return user.User{}, wrapErr(err, "binding user")
	}
	if err = sqlx.GetContext(ctx, repo.exec, &row.ID, repo.exec.Rebind(q), args...); err != nil {
		if pqCode(err) == uniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, wrapErr(err, "inserting user")
	}
	return row.toUser(), nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, wrapErr(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo userRepository) getBy(ctx context.Context, column string, arg interface{}) (user.User, error) {
	var row userRow
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	if err := sqlx.GetContext(ctx, repo.exec, &row, q, arg); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user")
	}
	return row.toUser(), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	return repo.getBy(ctx, "id", id)
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getBy(ctx, "email", email)
}

// UpdateUser saves the mutable fields of usr. The remote account id is only set through SetRemoteAccountID.
func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE users SET email = :email, name = :name, surname = :surname, password_hash = :password_hash,
		grade = :grade, country = :country, curriculum = :curriculum, role = :role
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.exec, q, toUserRow(usr))
	if err != nil {
		if pqCode(err) == uniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, wrapErr(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo userRepository) SetRemoteAccountID(ctx context.Context, id int, remoteID string) (user.User, error) {
	q := `UPDATE users SET remote_account_id = $2 WHERE id = $1 AND remote_account_id IS NULL`
	if _, err := repo.exec.ExecContext(ctx, q, id, remoteID); err != nil {
		return user.User{}, wrapErr(err, "setting remote account id")
	}
	return repo.GetUserByID(ctx, id)
}
