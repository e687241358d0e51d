package model

import (
	"time"

	"github.com/google/uuid"
)

type Equipment struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"` // только активное оборудование можно бронировать
	CreatedAt time.Time `json:"created_at"`
}
