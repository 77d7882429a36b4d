package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ValidationStatus is the lifecycle state of a validation request
type ValidationStatus int

const (
	// unknown stays first so that the zero value is never mistaken for a real state
	ValidationStatusUnknown ValidationStatus = iota
	ValidationStatusPending
	ValidationStatusProved
)

var validationStatusNames = []string{
	"unknown",
	"pending",
	"proved",
}

func (s ValidationStatus) String() string {
	if int(s) < 0 || int(s) >= len(validationStatusNames) {
		return validationStatusNames[0]
	}
	return validationStatusNames[s]
}

// ParseValidationStatus converts a status name into a ValidationStatus
func ParseValidationStatus(str string) (ValidationStatus, error) {
	for i, status := range validationStatusNames {
		if status == str {
			return ValidationStatus(i), nil
		}
	}
	return ValidationStatusUnknown, fmt.Errorf("invalid validation status: %s", str)
}

// MarshalJSON renders the status by name
func (s ValidationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a status name
func (s *ValidationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseValidationStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// ValidationRequest asks for a model to be validated against an uploaded ELF binary.
// It stays pending until a JSON proof is attached, after which it is proved and frozen.
type ValidationRequest struct {
	Base
	ModelID     uuid.UUID        `json:"modelId" gorm:"column:model_id;type:uuid;not null;index"`
	VerifierID  uuid.UUID        `json:"verifierId" gorm:"column:verifier_id;type:uuid;not null;index"`
	ElfFileURL  string           `json:"elfFileUrl" gorm:"column:elf_file_url;not null"`
	ElfKey      string           `json:"-" gorm:"column:elf_key;not null"`
	ElfDigest   string           `json:"elfDigest" gorm:"column:elf_digest"`
	ProofHash   string           `json:"proofHash" gorm:"column:proof_hash;not null"`
	JSONURL     string           `json:"jsonUrl" gorm:"column:json_url"`
	JSONKey     string           `json:"-" gorm:"column:json_key"`
	ProofDigest string           `json:"proofDigest,omitempty" gorm:"column:proof_digest"`
	Status      ValidationStatus `json:"status" gorm:"column:status;not null;index"`
	ProvedAt    *time.Time       `json:"provedAt,omitempty" gorm:"column:proved_at"`

	Model *Model `json:"model,omitempty" gorm:"foreignKey:ModelID"`
}

// IsProved reports whether a proof has been attached
func (v *ValidationRequest) IsProved() bool {
	return v.Status == ValidationStatusProved
}
