package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// CreatePayment сохраняет заявку на оплату в статусе pending и возвращает
// её идентификатор. Сумма передаётся уже посчитанной: хранилище не знает
// тарифной политики.
func (s *Storage) CreatePayment(ctx context.Context, userID int64, days, seats, amount int, comment *string) (int64, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_id, days, seats, amount, comment)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING payment_id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query, userID, days, seats, amount, comment).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPayments возвращает платежи пользователя, новые первыми,
// не более limit штук.
func (s *Storage) ListPayments(ctx context.Context, userID int64, limit int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT payment_id, user_id, days, seats, amount, status, comment, created_at
			  FROM payments
			  WHERE user_id = $1
			  ORDER BY payment_id DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var comment sql.NullString
		if err := rows.Scan(&p.PaymentID, &p.UserID, &p.Days, &p.Seats,
			&p.Amount, &p.Status, &comment, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if comment.Valid {
			p.Comment = &comment.String
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ConfirmLastPayment подтверждает самую свежую pending-заявку пользователя:
// переводит её в paid и начисляет её days на баланс тем же правилом,
// что и AddDays. Обе записи меняются в одной транзакции, частичное
// применение невозможно. Если pending-заявок нет, возвращает false без
// изменений. Подтверждается именно последняя заявка, а не конкретный
// payment_id: при нескольких pending-заявках более старые остаются висеть.
func (s *Storage) ConfirmLastPayment(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.ConfirmLastPayment"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var (
		paymentID int64
		days      int
	)
	query := `SELECT payment_id, days FROM payments
			  WHERE user_id = $1 AND status = 'pending'
			  ORDER BY payment_id DESC
			  LIMIT 1
			  FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, userID).Scan(&paymentID, &days)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE payments SET status = 'paid' WHERE payment_id = $1`,
		paymentID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users
		 SET days_left = GREATEST(days_left, 0) + $1, updated_at = now()
		 WHERE user_id = $2`,
		days, userID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// ListAllPayments возвращает все платежи для резервной выгрузки.
func (s *Storage) ListAllPayments(ctx context.Context) ([]*models.Payment, error) {
	const op = "storage.ListAllPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT payment_id, user_id, days, seats, amount, status, comment, created_at
			  FROM payments ORDER BY payment_id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var comment sql.NullString
		if err := rows.Scan(&p.PaymentID, &p.UserID, &p.Days, &p.Seats,
			&p.Amount, &p.Status, &comment, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if comment.Valid {
			p.Comment = &comment.String
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
