package models

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"` // info, success, warning, error
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
	Link      string    `json:"link,omitempty"`
}

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)
