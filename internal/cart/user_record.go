package cart

import "encoding/json"

// RecordKind tags the two shapes a persisted user record can take. Older
// sessions stored the user as plain text; newer ones store a JSON object.
type RecordKind int

const (
	KindStructured RecordKind = iota
	KindLegacy
)

// UserRecord is the persisted session user. Exactly one variant is
// populated: Name/Email/Role for KindStructured, Raw for KindLegacy.
type UserRecord struct {
	Kind  RecordKind
	Name  string
	Email string
	Role  string
	Raw   string
}

// Structured builds a structured user record.
func Structured(name, email, role string) UserRecord {
	return UserRecord{Kind: KindStructured, Name: name, Email: email, Role: role}
}

// Legacy builds a plain-text user record.
func Legacy(raw string) UserRecord {
	return UserRecord{Kind: KindLegacy, Raw: raw}
}

type structuredRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// decodeUserRecord parses a stored value, falling back to the legacy
// plain-text form when it is not a JSON object.
func decodeUserRecord(raw string) UserRecord {
	var rec structuredRecord
	if err := json.Unmarshal([]byte(raw), &rec); err == nil {
		return Structured(rec.Name, rec.Email, rec.Role)
	}
	return Legacy(raw)
}

func (r UserRecord) encode() (string, error) {
	if r.Kind == KindLegacy {
		return r.Raw, nil
	}
	b, err := json.Marshal(structuredRecord{Name: r.Name, Email: r.Email, Role: r.Role})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
