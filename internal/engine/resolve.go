package engine

import (
	"encoding/json"
	"strings"
)

// payload is the structured identity blob a student QR encodes. The field
// names are the wire contract shared with roster payload generation.
type payload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StudentID string `json:"studentId"`
	Class     string `json:"class"`
}

func parsePayload(s string) (payload, bool) {
	var p payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return payload{}, false
	}
	return p, true
}

// idMatch cross-matches parsed id candidates against both identity fields,
// since scanners and rosters may disagree on which field holds which value.
func idMatch(p payload, s Student) bool {
	for _, candidate := range []string{p.ID, p.StudentID} {
		if candidate == "" {
			continue
		}
		if candidate == s.ID || candidate == s.Code {
			return true
		}
	}
	return false
}

func nameClassMatch(name, class string, s Student) bool {
	return name != "" && class != "" && name == s.Name && class == s.Class
}

// stage is one resolution rule: returns the matched student, if any.
type stage func(raw string, roster []Student) (Student, bool)

// stages run in descending specificity. The order is part of the contract:
// exact structured matches run before fuzzy text matches to keep false
// positives down, and later stages run only when every earlier one missed.
var stages = []stage{
	structuredID,
	structuredNameClass,
	rawLiteral,
	canonicalPayload,
	structuredPayload,
	fuzzyName,
}

// Resolve maps a raw scanned payload to a roster student. Malformed input
// never fails hard; unparsable text just skips the structured stages. The
// first roster-order match within the first succeeding stage wins.
func Resolve(rawText string, roster []Student) (Student, bool) {
	raw := strings.TrimSpace(rawText)
	for _, match := range stages {
		if s, ok := match(raw, roster); ok {
			return s, true
		}
	}
	return Student{}, false
}

func structuredID(raw string, roster []Student) (Student, bool) {
	p, ok := parsePayload(raw)
	if !ok {
		return Student{}, false
	}
	for _, s := range roster {
		if idMatch(p, s) {
			return s, true
		}
	}
	return Student{}, false
}

func structuredNameClass(raw string, roster []Student) (Student, bool) {
	p, ok := parsePayload(raw)
	if !ok {
		return Student{}, false
	}
	for _, s := range roster {
		if nameClassMatch(p.Name, p.Class, s) {
			return s, true
		}
	}
	return Student{}, false
}

func rawLiteral(raw string, roster []Student) (Student, bool) {
	for _, s := range roster {
		if raw == s.Code || raw == s.ID {
			return s, true
		}
	}
	return Student{}, false
}

func canonicalPayload(raw string, roster []Student) (Student, bool) {
	for _, s := range roster {
		if raw == s.QRPayload {
			return s, true
		}
	}
	return Student{}, false
}

func structuredPayload(raw string, roster []Student) (Student, bool) {
	scanned, ok := parsePayload(raw)
	if !ok {
		return Student{}, false
	}
	for _, s := range roster {
		stored, ok := parsePayload(s.QRPayload)
		if !ok {
			continue
		}
		if stored.ID != "" && stored.ID == scanned.ID {
			return s, true
		}
		if stored.StudentID != "" && stored.StudentID == scanned.StudentID {
			return s, true
		}
		if nameClassMatch(scanned.Name, scanned.Class, Student{Name: stored.Name, Class: stored.Class}) {
			return s, true
		}
	}
	return Student{}, false
}

// fuzzyName is the deliberately loose last resort: bidirectional
// case-insensitive containment between the scanned name and roster names.
func fuzzyName(raw string, roster []Student) (Student, bool) {
	p, ok := parsePayload(raw)
	if !ok || p.Name == "" {
		return Student{}, false
	}
	scanned := strings.ToLower(p.Name)
	for _, s := range roster {
		name := strings.ToLower(s.Name)
		if strings.Contains(name, scanned) || strings.Contains(scanned, name) {
			return s, true
		}
	}
	return Student{}, false
}
