package registration

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestCleanPhone(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"5551234567":       "5551234567",
		"(555) 123-4567":   "5551234567",
		"+1 555 123 4567":  "15551234567",
		"abc":              "",
		"٣٤٥ 12":           "12",
		" 0 0 0 ":          "000",
		"555.123.4567 x89": "555123456789",
	}
	for in, want := range cases {
		if got := CleanPhone(in); got != want {
			t.Errorf("CleanPhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	for n := 0; n <= MaxPhoneDigits; n++ {
		in := "(" + strings.Repeat("7", n) + ")"
		got, err := ValidatePhone(in)
		if err != nil {
			t.Fatalf("%d digits: unexpected error %v", n, err)
		}
		if len(got) != n {
			t.Errorf("%d digits: got %q", n, got)
		}
	}

	if _, err := ValidatePhone("+1 (555) 123-4567"); !errors.Is(err, ErrPhoneTooLong) {
		t.Errorf("expected ErrPhoneTooLong for 11 digits, got %v", err)
	}
}

func TestNewReceiptID(t *testing.T) {
	pattern := regexp.MustCompile(`^(STD|FAC)-\d{6}$`)

	t.Run("Format", func(t *testing.T) {
		now := time.UnixMilli(1_712_345_678_901)
		if got := NewReceiptID(PrefixStudent, now); got != "STD-678901" {
			t.Errorf("got %s", got)
		}
	})

	t.Run("ZeroPadded", func(t *testing.T) {
		now := time.UnixMilli(1_700_000_000_042)
		got := NewReceiptID(PrefixFaculty, now)
		if got != "FAC-000042" {
			t.Errorf("got %s", got)
		}
		if !pattern.MatchString(got) {
			t.Errorf("%s does not match %s", got, pattern)
		}
	})

	t.Run("CollidesAcrossWrap", func(t *testing.T) {
		a := time.UnixMilli(1_700_000_123_456)
		b := a.Add(1_000_000 * time.Millisecond)
		if NewReceiptID(PrefixStudent, a) != NewReceiptID(PrefixStudent, b) {
			t.Error("expected IDs a million milliseconds apart to collide")
		}
	})
}

func TestStudentSubmissionPrepare(t *testing.T) {
	valid := func() StudentSubmission {
		return StudentSubmission{
			StudentName: "Ada",
			StudentAge:  "12",
			Grade:       "7",
			School:      "Lovelace Academy",
			ParentName:  "Grace",
			ParentEmail: "g@x.com",
			ParentPhone: "555-123-4567",
		}
	}

	t.Run("Valid", func(t *testing.T) {
		s := valid()
		if err := s.Prepare(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ParentPhone != "5551234567" {
			t.Errorf("phone not cleaned: %q", s.ParentPhone)
		}
	})

	t.Run("MissingSchool", func(t *testing.T) {
		s := valid()
		s.School = ""
		err := s.Prepare()
		if !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields, got %v", err)
		}
		var missing *MissingFieldsError
		if !errors.As(err, &missing) || len(missing.Fields) != 1 || missing.Fields[0] != "school" {
			t.Errorf("expected missing [school], got %v", err)
		}
		if UserMessage(err) != "Missing required fields" {
			t.Errorf("unexpected message %q", UserMessage(err))
		}
	})

	t.Run("LongPhone", func(t *testing.T) {
		s := valid()
		s.ParentPhone = "555 123 4567 8"
		if err := s.Prepare(); !errors.Is(err, ErrPhoneTooLong) {
			t.Errorf("expected ErrPhoneTooLong, got %v", err)
		}
	})
}

func TestStudentPrepareConsent(t *testing.T) {
	s := Student{Name: "Ada", Age: "12", School: "Lovelace", Email: "a@x.com", Phone: "555 1234"}
	if err := s.Prepare(); !errors.Is(err, ErrConsentRequired) {
		t.Fatalf("expected ErrConsentRequired, got %v", err)
	}
	s.Consent = true
	if err := s.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Phone != "5551234" {
		t.Errorf("phone not cleaned: %q", s.Phone)
	}
}

func TestPhoneWithoutDigitsIsAccepted(t *testing.T) {
	s := Student{Name: "Ada", Age: "12", School: "Lovelace", Email: "a@x.com", Phone: "n/a", Consent: true}
	if err := s.Prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Phone != "" {
		t.Errorf("phone = %q, want empty", s.Phone)
	}

	// A second pass over the cleaned payload, as the backend does after the client.
	if err := s.Prepare(); err != nil {
		t.Errorf("cleaned payload rejected: %v", err)
	}
	if got := s.Fields()["phone"]; got != "" {
		t.Errorf("Fields phone = %v", got)
	}
}

func TestFacultySubmissionDecode(t *testing.T) {
	body := `{"fullName":"Grace Hopper","phone":5551234567,"email":"g@x.com",
		"designation":"Teacher","experience":12,"availableDays":["Mon"," Wed","Sat"]}`

	var f FacultySubmission
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := f.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if f.AvailableDays != "Mon, Wed, Sat" {
		t.Errorf("availableDays = %q", f.AvailableDays)
	}
	if f.Experience != "12" || f.Phone != "5551234567" {
		t.Errorf("unexpected values: %+v", f)
	}
	if f.CommentsOrDefault() != "No comments provided" {
		t.Errorf("comments default = %q", f.CommentsOrDefault())
	}

	row := f.Row(time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC), "FAC-000001")
	want := []string{"2025-03-15T09:30:00.000Z", "FAC-000001", "Grace Hopper", "5551234567", "g@x.com", "Teacher", "12", "Mon, Wed, Sat", ""}
	if strings.Join(row, "|") != strings.Join(want, "|") {
		t.Errorf("row = %v", row)
	}
}

func TestTextRejectsObjects(t *testing.T) {
	var f FacultySubmission
	if err := json.Unmarshal([]byte(`{"fullName":{"first":"Grace"}}`), &f); err == nil {
		t.Error("expected an error for an object value")
	}
}
