package model

import "time"

// Well-known configuration keys.
const (
	ConfigHomeBanner        = "home_banner"
	ConfigMotivationalQuote = "motivational_quote"
)

// AppConfig is one key/value pair of site configuration.
type AppConfig struct {
	Key       string    `json:"key" gorm:"primaryKey;size:100"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName maps AppConfig to app_config.
func (AppConfig) TableName() string {
	return "app_config"
}
