// Package models defines the entities persisted by the encrypted store.
package models

import "time"

// Person is an onboarding record. Its fields are partitioned at the type
// level: BasicInfo is indexable/listable material, SensitiveInfo is the
// independently purgeable partition stored as a separate encrypted row.
// A field belongs to exactly one partition.
type Person struct {
	// UID is an opaque stable identifier, generated once and never reused.
	UID string `json:"uid"`

	Basic     BasicInfo     `json:"basic"`
	Sensitive SensitiveInfo `json:"sensitive"`

	// Extra carries forward-compatible unknown fields. Never sensitive
	// content; anything sensitive must be promoted into SensitiveInfo.
	Extra map[string]string `json:"extra,omitempty"`

	UpdatedAt time.Time `json:"-"`
}

// BasicInfo is retained for historical listing even after a person is
// removed. Name and Branch are mirrored into plain indexable columns.
type BasicInfo struct {
	Name             string `json:"name"`
	EmployeeID       string `json:"employee_id"`
	Branch           string `json:"branch"`
	JobName          string `json:"job_name"`
	JobLocation      string `json:"job_location"`
	ManagerName      string `json:"manager_name"`
	OnboardingStatus string `json:"onboarding_status"`
	NEOScheduledDate string `json:"neo_scheduled_date"`
	ShirtSize        string `json:"shirt_size"`
	PantsSize        string `json:"pants_size"`
	BootsSize        string `json:"boots_size"`
	Notes            string `json:"notes"`

	// Removed is a lifecycle flag, not a delete: the sensitive partition is
	// purged at the moment of removal, the basic row stays.
	Removed bool `json:"removed"`
}

// SensitiveInfo is the fixed enumerated set of fields requiring separate
// encrypted storage. The whole partition may be absent.
type SensitiveInfo struct {
	DateOfBirth  string `json:"date_of_birth"`
	SSN          string `json:"ssn"`
	IDType       string `json:"id_type"`
	IDState      string `json:"id_state"`
	IDNumber     string `json:"id_number"`
	IDExpiration string `json:"id_expiration"`

	BankName      string `json:"bank_name"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`

	ECFirstName    string `json:"ec_first_name"`
	ECLastName     string `json:"ec_last_name"`
	ECRelationship string `json:"ec_relationship"`
	ECPhone        string `json:"ec_phone"`

	BackgroundStatus string `json:"background_status"`
	BackgroundDate   string `json:"background_date"`
}

// IsZero reports whether no sensitive data has been collected. A clearing
// update (IsZero true) must delete any existing sensitive row.
func (s SensitiveInfo) IsZero() bool {
	return s == SensitiveInfo{}
}

// BasicPayload is what goes into the basic row's encrypted blob: everything
// in the basic partition beyond the plain indexable columns.
type BasicPayload struct {
	Basic BasicInfo         `json:"basic"`
	Extra map[string]string `json:"extra,omitempty"`
}

// ToBasicPayload returns the struct serialized into the basic row's
// payload_enc.
func (p *Person) ToBasicPayload() BasicPayload {
	return BasicPayload{Basic: p.Basic, Extra: p.Extra}
}

// ApplyBasicPayload restores Basic and Extra from a decrypted basic payload.
func (p *Person) ApplyBasicPayload(raw BasicPayload) {
	p.Basic = raw.Basic
	p.Extra = raw.Extra
}
