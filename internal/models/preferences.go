package models

import "time"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type NotificationFrequency string

const (
	FrequencyImmediate NotificationFrequency = "immediate"
	FrequencyDaily     NotificationFrequency = "daily"
	FrequencyWeekly    NotificationFrequency = "weekly"
)

// UserPreferences holds both independently-synced preference groups (theme,
// notification settings) in one record. At most one row per user, enforced
// by a unique constraint on UserID.
type UserPreferences struct {
	ID                    string                `json:"id"`
	UserID                string                `json:"user_id"`
	Theme                 Theme                 `json:"theme"`
	EmailNotifications    bool                  `json:"email_notifications"`
	SmsNotifications      bool                  `json:"sms_notifications"`
	NotificationFrequency NotificationFrequency `json:"notification_frequency"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// DefaultPreferences returns the lazily-inserted first row for a user:
// light theme, email notifications on, SMS off, immediate frequency.
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:                userID,
		Theme:                 ThemeLight,
		EmailNotifications:    true,
		SmsNotifications:      false,
		NotificationFrequency: FrequencyImmediate,
	}
}
