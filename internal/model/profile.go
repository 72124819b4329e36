package model

import "time"

type Profile struct {
	ID                   string    `db:"id"`
	UserID               string    `db:"user_id"`
	Name                 string    `db:"name"`
	AvatarURL            string    `db:"avatar_url"`
	NotificationsEnabled bool      `db:"notifications_enabled"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// Initial returns the first letter of the display name for avatar fallbacks.
func (p *Profile) Initial() string {
	for _, r := range p.Name {
		return string(r)
	}
	return "?"
}
