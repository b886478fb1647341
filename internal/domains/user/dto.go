package user

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// DateLayout is the wire format of date_of_birth.
const DateLayout = "2006-01-02"

// Superuser defaults used by the maintenance CLI.
const (
	DefaultSuperuserName     = "admin"
	DefaultSuperuserEmail    = "admin@freewriter.com"
	DefaultSuperuserPassword = "f001"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ========================================
// AUTHENTICATION DTOs
// ========================================

// RegisterRequest mirrors the sign-up form: password2 confirms password1.
type RegisterRequest struct {
	Username  string `json:"username" form:"username"`
	Email     string `json:"email" form:"email"`
	Password1 string `json:"password1" form:"password1"`
	Password2 string `json:"password2" form:"password2"`
}

func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 100),
			validation.Match(usernamePattern).Error("letters, digits and @/./+/-/_ only"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			validation.Length(3, 100),
			is.EmailFormat.Error("enter a valid email address"),
		),
		validation.Field(&r.Password1,
			validation.Required,
			validation.Length(8, 100).Error("at least eight characters"),
		),
		validation.Field(&r.Password2,
			validation.Required,
			validation.By(func(interface{}) error {
				if r.Password1 != r.Password2 {
					return ErrPasswordMismatch
				}
				return nil
			}),
		),
	)
}

// LoginRequest accepts "password1" as well, the field name of the HTML login form.
type LoginRequest struct {
	Username  string `json:"username" form:"username"`
	Password  string `json:"password" form:"password"`
	Password1 string `json:"password1" form:"password1"`
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	if r.Password == "" {
		r.Password = r.Password1
	}
	r.Password1 = ""
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse - returned after a successful login
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// ========================================
// USER PROFILE DTOs
// ========================================

// UserDTO - public user representation
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsStaff     bool       `json:"is_staff"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ProfileResponse combines the account and its profile.
type ProfileResponse struct {
	UserDTO
	UserType    UserType `json:"user_type"`
	Bio         string   `json:"bio"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	DateOfBirth string   `json:"date_of_birth,omitempty"`
	Location    string   `json:"location"`
	Website     string   `json:"website"`
}

// ToProfileResponse builds the response; resolve turns the avatar key into a URL.
func ToProfileResponse(u *User, p *Profile, resolve func(string) string) ProfileResponse {
	resp := ProfileResponse{
		UserDTO:  u.ToDTO(),
		UserType: p.UserType,
		Bio:      p.Bio,
		Location: p.Location,
		Website:  p.Website,
	}
	if p.HasAvatar() && resolve != nil {
		resp.AvatarURL = resolve(*p.Avatar)
	}
	if p.DateOfBirth != nil {
		resp.DateOfBirth = p.DateOfBirth.Format(DateLayout)
	}
	return resp
}

// UpdateProfileRequest - partial update, nil fields are left untouched.
// An empty date_of_birth clears it.
type UpdateProfileRequest struct {
	UserType    *string `json:"user_type,omitempty" form:"user_type"`
	Bio         *string `json:"bio,omitempty" form:"bio"`
	DateOfBirth *string `json:"date_of_birth,omitempty" form:"date_of_birth"`
	Location    *string `json:"location,omitempty" form:"location"`
	Website     *string `json:"website,omitempty" form:"website"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserType,
			validation.When(r.UserType != nil,
				validation.In(string(UserTypeReader), string(UserTypeWriter)).Error("must be reader or writer"),
			),
		),
		validation.Field(&r.Bio, validation.Length(0, 500)),
		validation.Field(&r.DateOfBirth,
			validation.When(r.DateOfBirth != nil && *r.DateOfBirth != "",
				validation.Date(DateLayout).Max(time.Now()).
					Error("must be a date in YYYY-MM-DD format").
					RangeError("must be in the past"),
			),
		),
		validation.Field(&r.Location, validation.Length(0, 100)),
		validation.Field(&r.Website,
			validation.Length(0, 200),
			is.URL.Error("must be a valid URL"),
		),
	)
}

// Apply copies the provided fields onto p. Validate must have passed.
func (r UpdateProfileRequest) Apply(p *Profile) {
	if r.UserType != nil {
		p.UserType = UserType(*r.UserType)
	}
	if r.Bio != nil {
		p.Bio = strings.TrimSpace(*r.Bio)
	}
	if r.DateOfBirth != nil {
		if *r.DateOfBirth == "" {
			p.DateOfBirth = nil
		} else if dob, err := time.Parse(DateLayout, *r.DateOfBirth); err == nil {
			p.DateOfBirth = &dob
		}
	}
	if r.Location != nil {
		p.Location = strings.TrimSpace(*r.Location)
	}
	if r.Website != nil {
		p.Website = strings.TrimSpace(*r.Website)
	}
}

// ========================================
// ADMIN DTOs
// ========================================

// SuperuserRequest - create-superuser maintenance command
type SuperuserRequest struct {
	Username string
	Email    string
	Password string
}

// SetDefaults fills blank fields with the built-in admin account.
func (r *SuperuserRequest) SetDefaults() {
	if r.Username == "" {
		r.Username = DefaultSuperuserName
	}
	if r.Email == "" {
		r.Email = DefaultSuperuserEmail
	}
	if r.Password == "" {
		r.Password = DefaultSuperuserPassword
	}
}
