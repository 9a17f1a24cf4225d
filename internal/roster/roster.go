// Package roster manages students and class groups, including the
// canonical QR payload each student's printed code encodes.
package roster

import (
	"encoding/json"
	"errors"

	"qrattend/internal/engine"
)

// Student is one enrolled student. Code is the human-facing student
// number; QRPayload is the canonical serialized identity blob.
type Student struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	QRPayload   string `json:"qr_payload"`
}

// Class is a named class group students belong to.
type Class struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// qrPayload is the wire shape of the canonical identity blob. Field names
// and order are the compatibility contract between payload generation here
// and resolution in the engine.
type qrPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	Class     string `json:"class"`
}

// EncodePayload builds the canonical QR payload for a student.
func EncodePayload(s Student) string {
	blob, err := json.Marshal(qrPayload{
		ID:        s.ID,
		Name:      s.Name,
		StudentID: s.Code,
		Class:     s.Class,
	})
	if err != nil {
		return ""
	}
	return string(blob)
}

// Validate checks the fields required at enrollment time.
func (s Student) Validate() error {
	if s.Name == "" {
		return errors.New("name required")
	}
	if s.Code == "" {
		return errors.New("student code required")
	}
	if s.Class == "" {
		return errors.New("class required")
	}
	return nil
}

// Engine converts to the engine's snapshot representation.
func (s Student) Engine() engine.Student {
	return engine.Student{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Class:       s.Class,
		DateOfBirth: s.DateOfBirth,
		QRPayload:   s.QRPayload,
	}
}

// EngineAll converts a roster snapshot, preserving iteration order, which
// the resolver's first-match rule depends on.
func EngineAll(students []Student) []engine.Student {
	out := make([]engine.Student, len(students))
	for i, s := range students {
		out[i] = s.Engine()
	}
	return out
}
