// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	BackupDir               string `yaml:"backup_dir"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Telegram                `yaml:"telegram"`
	Pricing                 `yaml:"pricing"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Address     string        `yaml:"address"`
	Timeout     time.Duration `yaml:"timeout"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Telegram содержит токен бота, которым подписывается initData,
// и список идентификаторов стартовых администраторов. Список нужен,
// чтобы назначить первого администратора до того, как в базе появится
// хоть одна запись с is_admin.
type Telegram struct {
	BotToken          string  `yaml:"bot_token" env:"BOT_TOKEN"`
	BootstrapAdminIDs []int64 `yaml:"bootstrap_admin_ids"`
}

// Pricing задаёт базовую цену за 30 дней на одно место и таблицу скидок
// по точному количеству дней.
type Pricing struct {
	BasePrice int             `yaml:"base_price" env-default:"75"`
	Discounts map[int]float64 `yaml:"discounts"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.Discounts == nil {
		cfg.Discounts = map[int]float64{30: 0.00, 60: 0.05, 90: 0.10}
	}
	return &cfg
}

// IsBootstrapAdmin сообщает, входит ли userID в список стартовых администраторов.
func (t Telegram) IsBootstrapAdmin(userID int64) bool {
	for _, id := range t.BootstrapAdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
