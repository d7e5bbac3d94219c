// Package models содержит доменные структуры пользователя и платежа,
// а также представление пользователя Telegram из initData.
package models

import "time"

// User представляет запись пользователя с балансом оставшихся дней.
// Поле DaysLeft может быть отрицательным: списание не ограничено нулём снизу.
type User struct {
	UserID       int64     `json:"user_id"`
	Username     *string   `json:"username"`
	DaysLeft     int       `json:"days_left"`
	ReminderSent int       `json:"reminder_sent3"`
	UserComment  *string   `json:"user_comment"`
	SeatsDefault int       `json:"seats_default"`
	ExpiredSince *string   `json:"expired_since"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Payment представляет заявку на оплату. Статус меняется только
// в одну сторону: pending -> paid.
type Payment struct {
	PaymentID int64     `json:"payment_id"`
	UserID    int64     `json:"user_id"`
	Days      int       `json:"days"`
	Seats     int       `json:"seats"`
	Amount    int       `json:"amount"`
	Status    string    `json:"status"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Статусы платежа.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// TelegramUser — пользователь из поля user в initData Telegram Mini App.
type TelegramUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

// UserSearchRow — строка результата поиска пользователей для админки.
type UserSearchRow struct {
	UserID   int64   `json:"user_id"`
	Username *string `json:"username"`
	DaysLeft int     `json:"days_left"`
}
