package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"nerdhub/internal/domain/models"
	"nerdhub/internal/storage"
)

type UserRepo struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

var userColumns = []string{"id", "name", "email", "password_hash", "phone", "birth_date", "created_at"}

func (r *UserRepo) SaveUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	const op = "repository.user_repository.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns("name", "email", "password_hash", "created_at").
		Values(name, email, passwordHash, time.Now().UTC()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrEmailExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *UserRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "repository.user_repository.UserByEmail"

	user, err := r.user(ctx, sq.Eq{"email": email})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) UserByID(ctx context.Context, userID int64) (models.User, error) {
	const op = "repository.user_repository.UserByID"

	user, err := r.user(ctx, sq.Eq{"id": userID})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) user(ctx context.Context, where sq.Eq) (models.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("can't build sql: %w", err)
	}

	var (
		user      models.User
		phone     sql.NullString
		birthDate sql.NullString
		createdAt sql.NullTime
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&phone,
		&birthDate,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}
		return models.User{}, err
	}

	if phone.Valid {
		user.Phone = &phone.String
	}
	if birthDate.Valid {
		user.BirthDate = &birthDate.String
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}

	return user, nil
}

// UpdateProfile sets only the non-nil fields of upd in one statement.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) error {
	const op = "repository.user_repository.UpdateProfile"

	if upd.IsEmpty() {
		return nil
	}

	builder := r.sb.Update("users").Where(sq.Eq{"id": userID})
	if upd.Name != nil {
		builder = builder.Set("name", *upd.Name)
	}
	if upd.Email != nil {
		builder = builder.Set("email", *upd.Email)
	}
	if upd.Phone != nil {
		builder = builder.Set("phone", *upd.Phone)
	}
	if upd.BirthDate != nil {
		builder = builder.Set("birth_date", *upd.BirthDate)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrEmailExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

// UpdatePassword overwrites the stored digest without any check of the old one.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	const op = "repository.user_repository.UpdatePassword"

	query, args, err := r.sb.Update("users").
		Set("password_hash", passwordHash).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

func (r *UserRepo) Users(ctx context.Context) ([]models.UserRef, error) {
	const op = "repository.user_repository.Users"

	query, args, err := r.sb.Select("id", "name", "email").From("users").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.UserRef
	for rows.Next() {
		var u models.UserRef
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}
