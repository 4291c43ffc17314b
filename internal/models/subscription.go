package models

import "time"

// SubscriptionData is the persisted license state of an install.
// It is created once at first run and only mutated by a successful activation.
type SubscriptionData struct {
	InstallDate time.Time `json:"installDate"`

	IsActivated bool `json:"isActivated"`

	// LastActivationDate starts the premium window. Nil until first activation.
	LastActivationDate *time.Time `json:"lastActivationDate,omitempty"`

	// SystemID seeds the activation key. It never changes for an install.
	SystemID string `json:"systemId"`
}
