package models

// Class is a bookable class. Attributes holds every stored field except _id,
// students included exactly as stored; Students is the numeric ranking key
// derived from it and is never serialized on its own.
type Class struct {
	ID         string
	Students   int64
	Attributes Document
}

// Instructor is ranked by Students the same way classes are.
type Instructor struct {
	ID         string
	Students   int64
	Attributes Document
}

type Review struct {
	ID         string
	Attributes Document
}

type SubmissionStatus string

const StatusPending SubmissionStatus = "pending"

// ClassSubmission is a class proposed by an instructor and awaiting review.
type ClassSubmission struct {
	ID         string
	Students   int64
	Status     SubmissionStatus
	Attributes Document
}

// WithStudents returns a copy of attrs carrying n as the stored count, for
// stores that keep the count in a column of its own.
func WithStudents(attrs Document, n int64) Document {
	out := attrs.Clone()
	if out == nil {
		out = Document{}
	}
	out[FieldStudents] = n
	return out
}

func storedJSON(id string, attrs Document) ([]byte, error) {
	known := map[string]interface{}{}
	if id != "" {
		known[FieldID] = id
	}
	return marshalFlat(attrs.Without(FieldID), known)
}

func rankedJSON(id string, students int64, attrs Document, extra map[string]interface{}) ([]byte, error) {
	known := map[string]interface{}{FieldStudents: students}
	if id != "" {
		known[FieldID] = id
	}
	for k, v := range extra {
		known[k] = v
	}
	return marshalFlat(attrs.Without(FieldID, FieldStudents), known)
}

func (c Class) MarshalJSON() ([]byte, error) {
	return storedJSON(c.ID, c.Attributes)
}

func (c *Class) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalFlat(data)
	if err != nil {
		return err
	}
	c.ID = stringField(raw, FieldID)
	c.Students = ToInt64(raw[FieldStudents])
	c.Attributes = Document(raw).Without(FieldID)
	return nil
}

func (i Instructor) MarshalJSON() ([]byte, error) {
	return storedJSON(i.ID, i.Attributes)
}

func (i *Instructor) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalFlat(data)
	if err != nil {
		return err
	}
	i.ID = stringField(raw, FieldID)
	i.Students = ToInt64(raw[FieldStudents])
	i.Attributes = Document(raw).Without(FieldID)
	return nil
}

func (r Review) MarshalJSON() ([]byte, error) {
	return storedJSON(r.ID, r.Attributes)
}

func (r *Review) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalFlat(data)
	if err != nil {
		return err
	}
	r.ID = stringField(raw, FieldID)
	r.Attributes = Document(raw).Without(FieldID)
	return nil
}

func (s ClassSubmission) MarshalJSON() ([]byte, error) {
	return rankedJSON(s.ID, s.Students, s.Attributes.Without(FieldStatus), map[string]interface{}{
		FieldStatus: s.Status,
	})
}

// UnmarshalJSON drops any incoming status; submissions always start pending.
func (s *ClassSubmission) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalFlat(data)
	if err != nil {
		return err
	}
	s.ID = stringField(raw, FieldID)
	s.Students = ToInt64(raw[FieldStudents])
	s.Status = StatusPending
	s.Attributes = Document(raw).Without(FieldID, FieldStudents, FieldStatus)
	return nil
}
