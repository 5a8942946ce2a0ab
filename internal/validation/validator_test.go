package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required,oneof=student teacher"`
	StudentID string `json:"studentId" validate:"required_if=Role student"`
	Hours     int    `json:"studyHours" validate:"gte=0"`
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(sample{Email: "nope", Role: "student", Hours: -1})

	d := ToDetails(err)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "is required", d["studentId"])
	assert.Equal(t, "must be greater than or equal to 0", d["studyHours"])
	assert.NotContains(t, d, "role")
}

func TestToDetails_OneOf(t *testing.T) {
	d := ToDetails(New().Struct(sample{Email: "a@x.com", Role: "admin"}))
	assert.Equal(t, "must be one of: student, teacher", d["role"])
}

func TestToDetails_NilAndForeign(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("x")))
}
