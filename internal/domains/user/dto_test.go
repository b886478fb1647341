package user

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{Username: "reader_1", Email: "reader@example.com", Password1: "s3cretpass", Password2: "s3cretpass"}

	tests := []struct {
		name      string
		mutate    func(r *RegisterRequest)
		wantField string
	}{
		{"valid", func(r *RegisterRequest) {}, ""},
		{"missing username", func(r *RegisterRequest) { r.Username = "" }, "username"},
		{"username with spaces", func(r *RegisterRequest) { r.Username = "two words" }, "username"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *RegisterRequest) { r.Password1, r.Password2 = "short", "short" }, "password1"},
		{"mismatch", func(r *RegisterRequest) { r.Password2 = "different1" }, "password2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestRegisterRequest_Normalize(t *testing.T) {
	req := RegisterRequest{Username: "  alice ", Email: " Alice@Example.COM "}
	req.Normalize()
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "alice@example.com", req.Email)
}

func TestLoginRequest_AcceptsFormFieldName(t *testing.T) {
	req := LoginRequest{Username: " bob ", Password1: "pw"}
	req.Normalize()
	assert.Equal(t, "bob", req.Username)
	assert.Equal(t, "pw", req.Password)
	assert.NoError(t, req.Validate())

	empty := LoginRequest{Username: "bob"}
	empty.Normalize()
	assert.Error(t, empty.Validate())
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(DateLayout)

	tests := []struct {
		name    string
		req     UpdateProfileRequest
		wantErr bool
	}{
		{"empty", UpdateProfileRequest{}, false},
		{"writer", UpdateProfileRequest{UserType: strPtr("writer")}, false},
		{"unknown type", UpdateProfileRequest{UserType: strPtr("editor")}, true},
		{"past date", UpdateProfileRequest{DateOfBirth: strPtr("1990-05-17")}, false},
		{"clear date", UpdateProfileRequest{DateOfBirth: strPtr("")}, false},
		{"bad date", UpdateProfileRequest{DateOfBirth: strPtr("17/05/1990")}, true},
		{"future date", UpdateProfileRequest{DateOfBirth: strPtr(tomorrow)}, true},
		{"website", UpdateProfileRequest{Website: strPtr("https://example.com/me")}, false},
		{"bad website", UpdateProfileRequest{Website: strPtr("not a url")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateProfileRequest_Apply(t *testing.T) {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	p := &Profile{UserType: UserTypeReader, Bio: "old", DateOfBirth: &dob, Location: "Paris"}

	UpdateProfileRequest{UserType: strPtr("writer"), Bio: strPtr("  new bio "), DateOfBirth: strPtr("")}.Apply(p)

	assert.Equal(t, UserTypeWriter, p.UserType)
	assert.Equal(t, "new bio", p.Bio)
	assert.Nil(t, p.DateOfBirth)
	assert.Equal(t, "Paris", p.Location)
}

func TestToProfileResponse(t *testing.T) {
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	key := "avatars/x-me.jpg"
	u := &User{ID: uuid.New(), Username: "alice"}
	p := &Profile{UserType: UserTypeWriter, Avatar: &key, DateOfBirth: &dob}

	resp := ToProfileResponse(u, p, func(k string) string { return "http://cdn/" + k })

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "http://cdn/avatars/x-me.jpg", resp.AvatarURL)
	assert.Equal(t, "1990-05-17", resp.DateOfBirth)

	bare := ToProfileResponse(u, NewReaderProfile(u.ID), nil)
	assert.Empty(t, bare.AvatarURL)
	assert.Equal(t, UserTypeReader, bare.UserType)
}

func TestSuperuserRequest_SetDefaults(t *testing.T) {
	req := SuperuserRequest{Username: "root"}
	req.SetDefaults()
	assert.Equal(t, "root", req.Username)
	assert.Equal(t, DefaultSuperuserEmail, req.Email)
	assert.Equal(t, DefaultSuperuserPassword, req.Password)
}
