// Package initdata реализует проверку подписи initData Telegram Mini App.
//
// initData — это строка в формате URL-query, которую формирует клиент Telegram
// при запуске мини-приложения. Поле hash содержит HMAC-подпись остальных полей,
// вычисленную по токену бота. Проверив подпись, сервер может доверять полю user
// без отдельного шага логина.
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/magabrotheeeer/miniapp-backend/internal/models"
)

// Ошибки проверки подписи. Все транслируются в HTTP 401.
var (
	ErrEmpty        = errors.New("empty init data")
	ErrNoHash       = errors.New("init data has no hash field")
	ErrBadSignature = errors.New("init data signature mismatch")
)

// Verifier проверяет подпись initData по токену бота.
type Verifier struct {
	botToken string
}

// New создает Verifier с заданным токеном бота.
func New(botToken string) *Verifier {
	return &Verifier{botToken: botToken}
}

// Verify проверяет подпись payload и возвращает пользователя из поля user.
//
// Алгоритм подписи определён Telegram: из payload убирается поле hash,
// оставшиеся пары сортируются по ключу и склеиваются в строки "key=value"
// через \n; секретный ключ — HMAC-SHA256 от токена бота с ключом "WebAppData";
// подпись — hex от HMAC-SHA256 этой строки с секретным ключом.
// Сравнение с полученным hash выполняется за константное время (hmac.Equal).
func (v *Verifier) Verify(raw string) (*models.TelegramUser, error) {
	const op = "initdata.Verify"

	if raw == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmpty)
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrBadSignature)
	}

	recvHash := values.Get("hash")
	if recvHash == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoHash)
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	checkString := strings.Join(lines, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(v.botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))

	recvBytes, err := hex.DecodeString(recvHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrBadSignature)
	}
	if !hmac.Equal(mac.Sum(nil), recvBytes) {
		return nil, fmt.Errorf("%s: %w", op, ErrBadSignature)
	}

	var user models.TelegramUser
	if raw := values.Get("user"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &user, nil
}
