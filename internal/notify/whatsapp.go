package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"maale/internal/models"
)

// ErrPhoneFormat means the phone number cannot be normalized to an
// international form and no confirmation link can be built.
var ErrPhoneFormat = errors.New("invalid phone number format")

const countryPrefix = "972"

// NormalizePhone converts a local phone number to international form:
// spaces, dashes and a leading plus are stripped; a leading 0 is replaced
// with the country prefix; a number already carrying the prefix is kept.
// Anything else is rejected.
func NormalizePhone(raw string) (string, error) {
	clean := strings.NewReplacer(" ", "", "-", "", "+", "").Replace(raw)

	switch {
	case strings.HasPrefix(clean, "0"):
		return countryPrefix + clean[1:], nil
	case strings.HasPrefix(clean, countryPrefix):
		return clean, nil
	default:
		return "", ErrPhoneFormat
	}
}

// WhatsAppLink builds a wa.me deep link with a pre-filled confirmation
// message for the booking. The system never sends anything itself; the
// link is presented for the user to open manually.
func WhatsAppLink(b *models.Booking) (string, error) {
	phone, err := NormalizePhone(b.Phone)
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf(
		"Your classroom booking is confirmed:\nDate: %s\nTime: %s-%s\nCourse: %s",
		b.Date.Format(models.DisplayDateLayout),
		b.StartSlot,
		b.EndSlot,
		b.CourseID,
	)

	// Percent-encode rather than form-encode: wa.me renders '+' literally.
	encoded := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")

	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, encoded), nil
}
