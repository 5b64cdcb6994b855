package models

const (
	FieldID       = "_id"
	FieldEmail    = "email"
	FieldRole     = "role"
	FieldStudents = "students"
	FieldStatus   = "status"
)

// User is a registered account. Profile holds whatever else the client sent
// at registration time.
type User struct {
	ID      string
	Email   string
	Role    Role
	Profile Document
}

func (u User) MarshalJSON() ([]byte, error) {
	known := map[string]interface{}{FieldEmail: u.Email}
	if u.ID != "" {
		known[FieldID] = u.ID
	}
	if u.Role != "" {
		known[FieldRole] = u.Role
	}
	return marshalFlat(u.Profile.Without(FieldID, FieldEmail, FieldRole), known)
}

func (u *User) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalFlat(data)
	if err != nil {
		return err
	}
	u.ID = stringField(raw, FieldID)
	u.Email = stringField(raw, FieldEmail)
	u.Role = Role(stringField(raw, FieldRole))
	u.Profile = Document(raw).Without(FieldID, FieldEmail, FieldRole)
	return nil
}
