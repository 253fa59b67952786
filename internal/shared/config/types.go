package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

// ChatConfig configures the chat-platform bot adapter.
type ChatConfig struct {
	BotToken       string `mapstructure:"bot_token"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	CardServiceURL string `mapstructure:"card_service_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// TradeConfig carries the lifecycle engine limits.
type TradeConfig struct {
	MaxOpenTicketsPerUser int `mapstructure:"max_open_tickets_per_user"`
	OpenCooldownSeconds   int `mapstructure:"open_cooldown_seconds"`
	MaxItemsPerTrade      int `mapstructure:"max_items_per_trade"`
	MaxReviewCommentLen   int `mapstructure:"max_review_comment_len"`
}

func (t *TradeConfig) OpenCooldown() time.Duration {
	return time.Duration(t.OpenCooldownSeconds) * time.Second
}
