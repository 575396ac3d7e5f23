package notify

import (
	"testing"
	"time"

	"maale/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "leading zero", raw: "0534444494", want: "972534444494"},
		{name: "already international", raw: "972534444494", want: "972534444494"},
		{name: "plus and dashes", raw: "+972-53-4444494", want: "972534444494"},
		{name: "spaces", raw: "053 444 4494", want: "972534444494"},
		{name: "no recognizable prefix", raw: "1234567", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPhoneFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhatsAppLink(t *testing.T) {
	b := &models.Booking{
		CourseID:  "course-7",
		Phone:     "0534444494",
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local),
		StartSlot: "10:00",
		EndSlot:   "11:30",
	}

	link, err := WhatsAppLink(b)
	require.NoError(t, err)

	assert.Contains(t, link, "https://wa.me/972534444494?text=")
	assert.Contains(t, link, "15-03-2026")
	assert.Contains(t, link, "10%3A00-11%3A30")
	// Spaces must be percent-encoded, never '+'
	assert.Contains(t, link, "%20")
	assert.NotContains(t, link, "+")
}

func TestWhatsAppLink_BadPhone(t *testing.T) {
	b := &models.Booking{Phone: "12345", Date: time.Now()}

	_, err := WhatsAppLink(b)
	assert.ErrorIs(t, err, ErrPhoneFormat)
}
