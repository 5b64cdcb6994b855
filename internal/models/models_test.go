package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "student", want: RoleStudent},
		{in: "instructor", want: RoleInstructor},
		{in: "admin", want: RoleAdmin},
		{in: "Admin", wantErr: true},
		{in: " admin ", wantErr: true},
		{in: "superuser", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRole) {
					t.Fatalf("ParseRole(%q) error = %v, want ErrUnknownRole", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseRole(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestUser_JSONFlattensProfile(t *testing.T) {
	var u User
	in := `{"_id":"u1","email":"a@b.com","role":"admin","name":"Ann","photo":"x.png"}`
	if err := json.Unmarshal([]byte(in), &u); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if u.ID != "u1" || u.Email != "a@b.com" || u.Role != RoleAdmin {
		t.Fatalf("known fields = %+v", u)
	}
	if _, ok := u.Profile[FieldEmail]; ok {
		t.Error("profile should not repeat email")
	}
	if u.Profile["name"] != "Ann" {
		t.Errorf("profile name = %v", u.Profile["name"])
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var flat map[string]interface{}
	_ = json.Unmarshal(out, &flat)
	if flat["photo"] != "x.png" || flat["role"] != "admin" || flat["_id"] != "u1" {
		t.Errorf("marshalled = %s", out)
	}
}

func TestUser_KnownFieldsWinOverProfile(t *testing.T) {
	u := User{Email: "real@b.com", Role: RoleStudent, Profile: Document{"email": "fake@b.com", "role": "admin"}}
	out, _ := json.Marshal(u)

	var flat map[string]interface{}
	_ = json.Unmarshal(out, &flat)
	if flat["email"] != "real@b.com" || flat["role"] != "student" {
		t.Errorf("marshalled = %s", out)
	}
	if _, ok := flat["_id"]; ok {
		t.Error("empty id should be omitted")
	}
}

func TestClassSubmission_AlwaysPending(t *testing.T) {
	var s ClassSubmission
	if err := json.Unmarshal([]byte(`{"name":"Yoga","status":"approved","students":3}`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Status != StatusPending {
		t.Errorf("status = %q, want pending", s.Status)
	}
	if s.Students != 3 {
		t.Errorf("students = %d, want 3", s.Students)
	}
	if _, ok := s.Attributes[FieldStatus]; ok {
		t.Error("attributes should not carry status")
	}

	out, _ := json.Marshal(s)
	var flat map[string]interface{}
	_ = json.Unmarshal(out, &flat)
	if flat["status"] != "pending" || flat["name"] != "Yoga" {
		t.Errorf("marshalled = %s", out)
	}
}

func TestClass_JSON(t *testing.T) {
	var c Class
	if err := json.Unmarshal([]byte(`{"_id":"c1","students":12,"title":"Boxing"}`), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c.ID != "c1" || c.Students != 12 || c.Attributes["title"] != "Boxing" {
		t.Errorf("class = %+v", c)
	}
}

func TestClass_ServesStoredStudentsVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantRank int64
		want     interface{}
		wantKey  bool
	}{
		{name: "missing", in: `{"_id":"c1","name":"Yoga"}`, wantRank: 0},
		{name: "decimal", in: `{"_id":"c2","students":12.5}`, wantRank: 12, want: 12.5, wantKey: true},
		{name: "string", in: `{"_id":"c3","students":"40"}`, wantRank: 40, want: "40", wantKey: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Class
			if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if c.Students != tt.wantRank {
				t.Errorf("Students = %d, want %d", c.Students, tt.wantRank)
			}

			out, _ := json.Marshal(c)
			var flat map[string]interface{}
			_ = json.Unmarshal(out, &flat)
			got, ok := flat["students"]
			if ok != tt.wantKey || got != tt.want {
				t.Errorf("served students = %v (present %v), want %v (present %v)", got, ok, tt.want, tt.wantKey)
			}
		})
	}
}

func TestWithStudents(t *testing.T) {
	attrs := Document{"name": "Judo"}
	got := WithStudents(attrs, 7)
	if got[FieldStudents] != int64(7) || got["name"] != "Judo" {
		t.Errorf("WithStudents() = %v", got)
	}
	if _, ok := attrs[FieldStudents]; ok {
		t.Error("WithStudents must not modify its argument")
	}
}

func TestDocument_Without(t *testing.T) {
	d := Document{"a": 1, "b": 2}
	got := d.Without("a")
	if _, ok := got["a"]; ok {
		t.Error("key a should be removed")
	}
	if _, ok := d["a"]; !ok {
		t.Error("Without must not modify the receiver")
	}
	if Document(nil).Without("a") == nil {
		t.Error("Without on nil should return an empty document")
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int64
	}{
		{in: 5, want: 5},
		{in: int32(7), want: 7},
		{in: int64(9), want: 9},
		{in: 3.9, want: 3},
		{in: math.NaN(), want: 0},
		{in: json.Number("42"), want: 42},
		{in: "12", want: 12},
		{in: " 40 ", want: 40},
		{in: "many", want: 0},
		{in: nil, want: 0},
	}
	for _, tt := range tests {
		if got := ToInt64(tt.in); got != tt.want {
			t.Errorf("ToInt64(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
