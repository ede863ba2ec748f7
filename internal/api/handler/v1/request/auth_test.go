package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequestValidate(t *testing.T) {
	valid := SignupRequest{
		Email:           "alice@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		Name:            "Alice",
		Role:            "attendee",
	}

	tests := []struct {
		name    string
		mutate  func(*SignupRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *SignupRequest) {}},
		{name: "valid organizer", mutate: func(r *SignupRequest) { r.Role = "organizer" }},
		{name: "empty role is allowed", mutate: func(r *SignupRequest) { r.Role = "" }},
		{name: "bad email", mutate: func(r *SignupRequest) { r.Email = "not-an-email" }, wantErr: true},
		{name: "admin cannot self-signup", mutate: func(r *SignupRequest) { r.Role = "admin" }, wantErr: true},
		{name: "password too short", mutate: func(r *SignupRequest) { r.Password = "pass1"; r.ConfirmPassword = "pass1" }, wantErr: true},
		{name: "password without digit", mutate: func(r *SignupRequest) { r.Password = "passwords"; r.ConfirmPassword = "passwords" }, wantErr: true},
		{name: "password without letter", mutate: func(r *SignupRequest) { r.Password = "12345678"; r.ConfirmPassword = "12345678" }, wantErr: true},
		{name: "confirm mismatch", mutate: func(r *SignupRequest) { r.ConfirmPassword = "password2" }, wantErr: true},
		{name: "missing name", mutate: func(r *SignupRequest) { r.Name = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "alice@example.com", Password: "password1"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "", Password: "password1"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "alice@example.com", Password: ""}).Validate())
}
