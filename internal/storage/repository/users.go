package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в базе.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `user_id, username, days_left, reminder_sent3, user_comment,
	      seats_default, expired_since, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var username, userComment, expiredSince sql.NullString
	if err := row.Scan(&u.UserID, &username, &u.DaysLeft, &u.ReminderSent,
		&userComment, &u.SeatsDefault, &expiredSince, &u.IsAdmin,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if username.Valid {
		u.Username = &username.String
	}
	if userComment.Valid {
		u.UserComment = &userComment.String
	}
	if expiredSince.Valid {
		u.ExpiredSince = &expiredSince.String
	}
	return u, nil
}

// GetOrCreateUser вставляет пользователя с нулевым балансом при первом
// обращении. При конфликте обновляются только username и updated_at:
// баланс и признак администратора существующей записи не трогаются.
func (s *Storage) GetOrCreateUser(ctx context.Context, userID int64, username *string) (*models.User, error) {
	const op = "storage.GetOrCreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (user_id, username)
			  VALUES ($1, $2)
			  ON CONFLICT (user_id) DO UPDATE
			      SET username = EXCLUDED.username, updated_at = now()
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его идентификатору.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// AddDays начисляет days к балансу. Отрицательный баланс перед начислением
// поднимается до нуля (GREATEST), поэтому начисление всегда идёт от нуля
// или выше.
func (s *Storage) AddDays(ctx context.Context, userID int64, days int) error {
	const op = "storage.AddDays"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET days_left = GREATEST(days_left, 0) + $1, updated_at = now()
			  WHERE user_id = $2`
	if _, err := s.DB.ExecContext(ctx, query, days, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubDays списывает days с баланса. Баланс перед списанием так же
// поднимается до нуля, но результат нулём не ограничен и может уйти
// в минус.
func (s *Storage) SubDays(ctx context.Context, userID int64, days int) error {
	const op = "storage.SubDays"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET days_left = GREATEST(days_left, 0) - $1, updated_at = now()
			  WHERE user_id = $2`
	if _, err := s.DB.ExecContext(ctx, query, days, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetDays выставляет баланс без каких-либо ограничений.
func (s *Storage) SetDays(ctx context.Context, userID int64, days int) error {
	const op = "storage.SetDays"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET days_left = $1, updated_at = now()
			  WHERE user_id = $2`
	if _, err := s.DB.ExecContext(ctx, query, days, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile обновляет username и комментарий пользователя.
// Пустой (nil) username сохраняет прежнее значение, комментарий
// перезаписывается как есть.
func (s *Storage) UpdateProfile(ctx context.Context, userID int64, username, comment *string) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET username = COALESCE($1, username), user_comment = $2, updated_at = now()
			  WHERE user_id = $3`
	if _, err := s.DB.ExecContext(ctx, query, username, comment, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SearchUsers ищет пользователей для админки. Числовой запрос
// (допустим префикс "@") трактуется как точный user_id, непустая строка —
// как подстрока username, пустой запрос возвращает последних limit
// пользователей. Пустой результат не является ошибкой.
func (s *Storage) SearchUsers(ctx context.Context, q string, limit int) ([]*models.UserSearchRow, error) {
	const op = "storage.SearchUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		rows *sql.Rows
		err  error
	)
	trimmed := strings.TrimPrefix(q, "@")
	if id, convErr := strconv.ParseInt(trimmed, 10, 64); q != "" && convErr == nil {
		query := `SELECT user_id, username, days_left FROM users WHERE user_id = $1`
		rows, err = s.DB.QueryContext(ctx, query, id)
	} else if q != "" {
		query := `SELECT user_id, username, days_left FROM users
				  WHERE username LIKE $1
				  ORDER BY user_id DESC LIMIT $2`
		rows, err = s.DB.QueryContext(ctx, query, "%"+trimmed+"%", limit)
	} else {
		query := `SELECT user_id, username, days_left FROM users
				  ORDER BY user_id DESC LIMIT $1`
		rows, err = s.DB.QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserSearchRow
	for rows.Next() {
		var r models.UserSearchRow
		var username sql.NullString
		if err := rows.Scan(&r.UserID, &username, &r.DaysLeft); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if username.Valid {
			r.Username = &username.String
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExportRows возвращает строки для CSV-выгрузки в порядке возрастания user_id.
func (s *Storage) ExportRows(ctx context.Context) ([]*models.UserSearchRow, error) {
	const op = "storage.ExportRows"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_id, username, days_left FROM users ORDER BY user_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.UserSearchRow
	for rows.Next() {
		var r models.UserSearchRow
		var username sql.NullString
		if err := rows.Scan(&r.UserID, &username, &r.DaysLeft); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if username.Valid {
			r.Username = &username.String
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllUsers возвращает всех пользователей для резервной выгрузки.
func (s *Storage) ListAllUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListAllUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY user_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
