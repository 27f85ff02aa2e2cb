package formclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/spellbe/portal-api/internal/capacity"
	"github.com/spellbe/portal-api/internal/registration"
)

// ThankYouPath is where every successful submission redirects.
const ThankYouPath = "/thank-you"

type payload interface {
	Prepare() error
	Fields() map[string]any
}

// Form is one filled-in registration page, ready to submit.
type Form struct {
	// Name identifies the form at the capture endpoint ("form-name").
	Name string
	// Path is the backend endpoint the payload is forwarded to.
	Path string
	// Category is empty for forms that do not count against a cap.
	Category      capacity.Category
	Success       string
	Fallback      string
	RedirectAfter time.Duration

	payload payload
}

func StudentForm(s registration.Student) Form {
	return Form{
		Name:          "student-registration",
		Path:          "/api/students/register",
		Category:      capacity.Students,
		Success:       "Registration successful! We look forward to seeing you at the event.",
		Fallback:      "Something went wrong. Please try again.",
		RedirectAfter: 1200 * time.Millisecond,
		payload:       &s,
	}
}

func VolunteerForm(v registration.Volunteer) Form {
	return Form{
		Name:          "volunteer-registration",
		Path:          "/api/volunteers/register",
		Category:      capacity.Volunteers,
		Success:       "Thank you for volunteering! We will contact you soon.",
		Fallback:      "Something went wrong. Please try again.",
		RedirectAfter: 1200 * time.Millisecond,
		payload:       &v,
	}
}

func ContactForm(c registration.Contact) Form {
	return Form{
		Name:          "contact-form",
		Path:          "/api/contact",
		Success:       "Message sent! We will get back to you soon.",
		Fallback:      "Failed to send message. Please try again.",
		RedirectAfter: 800 * time.Millisecond,
		payload:       &c,
	}
}

// encode returns the payload as JSON and as capture-endpoint form values.
// Every field is sent, empty ones as "" and booleans as "true"/"false".
func (f Form) encode() ([]byte, url.Values, error) {
	fields := f.payload.Fields()

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, err
	}

	values := url.Values{}
	values.Set("form-name", f.Name)
	for k, v := range fields {
		values.Set(k, fmt.Sprint(v))
	}
	return body, values, nil
}
