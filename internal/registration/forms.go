package registration

import "time"

// Student is the student registration accepted by the backend API.
type Student struct {
	Name    string `json:"name,omitempty" validate:"required" doc:"Student name"`
	Age     string `json:"age,omitempty" validate:"required" doc:"Age or grade"`
	School  string `json:"school,omitempty" validate:"required" doc:"School"`
	Email   string `json:"email,omitempty" validate:"required" doc:"Parent or student email"`
	Phone   string `json:"phone,omitempty" doc:"Phone number, at most 10 digits once non-digits are removed"`
	Consent bool   `json:"consent,omitempty" doc:"Consent to collect data; must be true"`
}

// Prepare validates s and replaces the phone with its cleaned digits.
func (s *Student) Prepare() error {
	if err := Validate(s); err != nil {
		return err
	}
	if !s.Consent {
		return ErrConsentRequired
	}
	phone, err := ValidatePhone(s.Phone)
	if err != nil {
		return err
	}
	s.Phone = phone
	return nil
}

// Fields returns every field of s by its JSON name, empty ones included.
func (s Student) Fields() map[string]any {
	return map[string]any{
		"name":    s.Name,
		"age":     s.Age,
		"school":  s.School,
		"email":   s.Email,
		"phone":   s.Phone,
		"consent": s.Consent,
	}
}

// Row is the spreadsheet row for s.
func (s Student) Row(at time.Time, id string) []string {
	return []string{Timestamp(at), id, s.Name, s.Age, s.School, s.Email, s.Phone}
}

// Volunteer is the volunteer registration accepted by the backend API.
type Volunteer struct {
	Name         string `json:"name,omitempty" validate:"required" doc:"Full name"`
	Email        string `json:"email,omitempty" validate:"required" doc:"Email"`
	Phone        string `json:"phone,omitempty" doc:"Phone number, at most 10 digits once non-digits are removed"`
	Organization string `json:"organization,omitempty" validate:"required" doc:"School or organization"`
}

func (v *Volunteer) Prepare() error {
	if err := Validate(v); err != nil {
		return err
	}
	phone, err := ValidatePhone(v.Phone)
	if err != nil {
		return err
	}
	v.Phone = phone
	return nil
}

func (v Volunteer) Fields() map[string]any {
	return map[string]any{
		"name":         v.Name,
		"email":        v.Email,
		"phone":        v.Phone,
		"organization": v.Organization,
	}
}

func (v Volunteer) Row(at time.Time, id string) []string {
	return []string{Timestamp(at), id, v.Name, v.Email, v.Phone, v.Organization}
}

// Contact is a message from the contact page.
type Contact struct {
	Name    string `json:"name,omitempty" validate:"required" doc:"Sender name"`
	Email   string `json:"email,omitempty" validate:"required" doc:"Sender email"`
	Message string `json:"message,omitempty" validate:"required" doc:"Message body"`
}

func (c *Contact) Prepare() error {
	return Validate(c)
}

func (c Contact) Fields() map[string]any {
	return map[string]any{
		"name":    c.Name,
		"email":   c.Email,
		"message": c.Message,
	}
}

func (c Contact) Row(at time.Time, id string) []string {
	return []string{Timestamp(at), id, c.Name, c.Email, c.Message}
}
