package userdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a Playlist Party account. Contact channels and notification
// preferences ride along as JSONB since delivery workers read them as a unit.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	Name     string    `bun:"name,notnull"`
	Username string    `bun:"username,notnull,unique"`
	Email    string    `bun:"email,nullzero"`

	Phone         string `bun:"phone,nullzero"`
	PhoneCarrier  string `bun:"phone_carrier,nullzero"`
	PhoneVerified bool   `bun:"phone_verified,notnull,default:false"`

	// Preferences maps notification codes to opt-in flags. Missing codes
	// default to opted-in.
	Preferences map[string]bool `bun:"preferences,type:jsonb"`

	PushSubscriptions []PushSubscription `bun:"push_subscriptions,type:jsonb"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// PushSubscription is a browser push endpoint registered from the PWA.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	P256DH   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// WantsNotification reports whether the user accepts the given notification
// code. Absent preferences read as accepted.
func (u *User) WantsNotification(code string) bool {
	if u.Preferences == nil {
		return true
	}
	enabled, ok := u.Preferences[code]
	if !ok {
		return true
	}
	return enabled
}
