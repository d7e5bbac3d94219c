// Package admin реализует административный контур: проверку прав,
// поиск пользователей, CSV-выгрузку и резервную выгрузку данных.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magabrotheeeer/miniapp-backend/internal/models"
	"github.com/magabrotheeeer/miniapp-backend/internal/storage/repository"
)

// ErrForbidden возвращается, когда пользователь не администратор.
var ErrForbidden = errors.New("forbidden")

const searchLimit = 20

// AdminRepository описывает операции хранилища, нужные админке.
type AdminRepository interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	SearchUsers(ctx context.Context, q string, limit int) ([]*models.UserSearchRow, error)
	ExportRows(ctx context.Context) ([]*models.UserSearchRow, error)
	ListAllUsers(ctx context.Context) ([]*models.User, error)
	ListAllPayments(ctx context.Context) ([]*models.Payment, error)
}

// Service проверяет права администратора и выполняет админские операции.
// Список bootstrapAdmins приходит из конфига: он позволяет назначить
// первого администратора, когда в базе ещё нет ни одной записи с is_admin.
type Service struct {
	repo            AdminRepository
	bootstrapAdmins []int64
	backupDir       string
	log             *slog.Logger
}

// New создает Service.
func New(repo AdminRepository, bootstrapAdmins []int64, backupDir string, log *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		bootstrapAdmins: bootstrapAdmins,
		backupDir:       backupDir,
		log:             log,
	}
}

// IsAdmin сообщает, является ли пользователь администратором: либо по
// флагу is_admin в базе, либо по списку стартовых администраторов.
func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	for _, id := range s.bootstrapAdmins {
		if id == userID {
			return true, nil
		}
	}
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return u.IsAdmin, nil
}

// EnsureAdmin возвращает ErrForbidden, если пользователь не администратор.
func (s *Service) EnsureAdmin(ctx context.Context, userID int64) error {
	ok, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// SearchUsers ищет пользователей по запросу из админки.
func (s *Service) SearchUsers(ctx context.Context, q string) ([]*models.UserSearchRow, error) {
	rows, err := s.repo.SearchUsers(ctx, q, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return rows, nil
}

// ExportCSV собирает выгрузку пользователей: заголовок
// user_id,username,days_left и строки по возрастанию user_id.
// Запятые в username заменяются пробелом, кавычки не используются —
// формат зафиксирован потребителем выгрузки.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	rows, err := s.repo.ExportRows(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export users: %w", err)
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, "user_id,username,days_left")
	for _, r := range rows {
		username := ""
		if r.Username != nil {
			username = strings.ReplaceAll(*r.Username, ",", " ")
		}
		out = append(out, fmt.Sprintf("%d,%s,%d", r.UserID, username, r.DaysLeft))
	}
	return strings.Join(out, "\n"), nil
}

// Backup выгружает таблицы users и payments в SQL-файл с отметкой
// времени в имени внутри каталога backupDir и возвращает имя файла.
func (s *Service) Backup(ctx context.Context) (string, error) {
	users, err := s.repo.ListAllUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read users for backup: %w", err)
	}
	payments, err := s.repo.ListAllPayments(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read payments for backup: %w", err)
	}

	var b strings.Builder
	b.WriteString("-- miniapp-backend backup\n")
	for _, u := range users {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO users (user_id, username, days_left, reminder_sent3, user_comment, seats_default, expired_since, is_admin, created_at, updated_at) VALUES (%d, %s, %d, %d, %s, %d, %s, %t, %s, %s);\n",
			u.UserID, sqlString(u.Username), u.DaysLeft, u.ReminderSent,
			sqlString(u.UserComment), u.SeatsDefault, sqlString(u.ExpiredSince),
			u.IsAdmin, sqlTime(u.CreatedAt), sqlTime(u.UpdatedAt)))
	}
	for _, p := range payments {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO payments (payment_id, user_id, days, seats, amount, status, comment, created_at) VALUES (%d, %d, %d, %d, %d, '%s', %s, %s);\n",
			p.PaymentID, p.UserID, p.Days, p.Seats, p.Amount, p.Status,
			sqlString(p.Comment), sqlTime(p.CreatedAt)))
	}

	name := fmt.Sprintf("miniapp_backup_%s.sql", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(s.backupDir, name), []byte(b.String()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	s.log.Info("backup written", slog.String("file", name),
		slog.Int("users", len(users)), slog.Int("payments", len(payments)))
	return name, nil
}

func sqlString(s *string) string {
	if s == nil {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(*s, "'", "''") + "'"
}

func sqlTime(t time.Time) string {
	return "'" + t.UTC().Format("2006-01-02 15:04:05.999999-07") + "'"
}
