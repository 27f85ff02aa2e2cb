package registration

import "time"

// StudentSubmission is the body of the submit-student function.
type StudentSubmission struct {
	StudentName        Text `json:"studentName" validate:"required"`
	StudentAge         Text `json:"studentAge" validate:"required"`
	Grade              Text `json:"grade" validate:"required"`
	School             Text `json:"school" validate:"required"`
	PreviousExperience Text `json:"previousExperience"`
	ParentName         Text `json:"parentName" validate:"required"`
	ParentEmail        Text `json:"parentEmail" validate:"required"`
	ParentPhone        Text `json:"parentPhone" validate:"required"`
	Address            Text `json:"address"`
}

// Prepare validates s and replaces the parent phone with its cleaned digits.
func (s *StudentSubmission) Prepare() error {
	if err := Validate(s); err != nil {
		return err
	}
	phone, err := ValidatePhone(string(s.ParentPhone))
	if err != nil {
		return err
	}
	s.ParentPhone = Text(phone)
	return nil
}

// ExperienceOrDefault and AddressOrDefault fill the optional fields for display.
func (s StudentSubmission) ExperienceOrDefault() string {
	return orDefault(string(s.PreviousExperience), "No previous experience")
}

func (s StudentSubmission) AddressOrDefault() string {
	return orDefault(string(s.Address), "Not provided")
}

// Row is the spreadsheet row: timestamp, receipt ID, then the fields in form order.
func (s StudentSubmission) Row(at time.Time, receiptID string) []string {
	return []string{
		Timestamp(at),
		receiptID,
		string(s.StudentName),
		string(s.StudentAge),
		string(s.Grade),
		string(s.School),
		string(s.PreviousExperience),
		string(s.ParentName),
		string(s.ParentEmail),
		string(s.ParentPhone),
		string(s.Address),
	}
}

// FacultySubmission is the body of the submit-faculty function.
// AvailableDays arrives either as a comma-joined string or as a list of day tokens.
type FacultySubmission struct {
	FullName      Text `json:"fullName" validate:"required"`
	Phone         Text `json:"phone" validate:"required"`
	Email         Text `json:"email" validate:"required"`
	Designation   Text `json:"designation" validate:"required"`
	Experience    Text `json:"experience"`
	AvailableDays Text `json:"availableDays"`
	Comments      Text `json:"comments"`
}

func (f *FacultySubmission) Prepare() error {
	if err := Validate(f); err != nil {
		return err
	}
	phone, err := ValidatePhone(string(f.Phone))
	if err != nil {
		return err
	}
	f.Phone = Text(phone)
	return nil
}

func (f FacultySubmission) ExperienceOrDefault() string {
	return orDefault(string(f.Experience), "Not specified")
}

func (f FacultySubmission) AvailableDaysOrDefault() string {
	return orDefault(string(f.AvailableDays), "Not specified")
}

func (f FacultySubmission) CommentsOrDefault() string {
	return orDefault(string(f.Comments), "No comments provided")
}

func (f FacultySubmission) Row(at time.Time, receiptID string) []string {
	return []string{
		Timestamp(at),
		receiptID,
		string(f.FullName),
		string(f.Phone),
		string(f.Email),
		string(f.Designation),
		string(f.Experience),
		string(f.AvailableDays),
		string(f.Comments),
	}
}
