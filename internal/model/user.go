package model

import "time"

type User struct {
	TelegramID       int64
	Username         string
	ReferrerID       *int64
	Referrals        int
	RegistrationDate time.Time
}

type AttributionStatus int

const (
	AttributionAlreadyRegistered AttributionStatus = iota + 1
	AttributionNewlyRegistered
)

func (s AttributionStatus) String() string {
	switch s {
	case AttributionAlreadyRegistered:
		return "already_registered"
	case AttributionNewlyRegistered:
		return "newly_registered"
	default:
		return "unknown"
	}
}

// AttributionResult is the outcome of a first-contact attribution.
// ReferrerCredited is only meaningful for AttributionNewlyRegistered.
type AttributionResult struct {
	Status           AttributionStatus
	User             *User
	ReferrerCredited bool
}

func AlreadyRegistered(user *User) *AttributionResult {
	return &AttributionResult{
		Status: AttributionAlreadyRegistered,
		User:   user,
	}
}

func NewlyRegistered(user *User, referrerCredited bool) *AttributionResult {
	return &AttributionResult{
		Status:           AttributionNewlyRegistered,
		User:             user,
		ReferrerCredited: referrerCredited,
	}
}
