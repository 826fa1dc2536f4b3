package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:120" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`

	// Identidade no canal de mensagens; é o userId usado nos agendamentos.
	TelegramUserID string `gorm:"size:64;index" json:"telegram_user_id"`

	Timezone string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
