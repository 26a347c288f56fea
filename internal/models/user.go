package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"
const RoleUser = "user"

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Department   *string   `json:"department"`
	Phone        *string   `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Ref returns the full reference view of u.
func (u User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Department: u.Department, Phone: u.Phone}
}

// UserRef is how an asset's assignee is shown. Lists carry only name and
// email; single-asset reads add department and phone.
type UserRef struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department *string   `json:"department,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
}

// UserInput is the create payload for a user.
type UserInput struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
	Role       string  `json:"role" validate:"omitempty,oneof=admin user"`
	Department *string `json:"department" validate:"omitempty,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=64"`
}

// Validate normalises the payload (lower-case email, default role) and checks it.
func (in *UserInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Department = trimOptional(in.Department)
	in.Phone = trimOptional(in.Phone)
	if in.Role == "" {
		in.Role = RoleUser
	}
	return validateStruct(in)
}

// UserPatch is the admin update payload for a user. Absent fields are left
// alone; department and phone may be cleared with null.
type UserPatch struct {
	Name       Field[string] `json:"name"`
	Email      Field[string] `json:"email"`
	Password   Field[string] `json:"password"`
	Role       Field[string] `json:"role"`
	Department Field[string] `json:"department"`
	Phone      Field[string] `json:"phone"`
}

// Validate normalises the present fields and checks them.
func (p *UserPatch) Validate() map[string]string {
	fields := make(map[string]string)

	p.Name.Value = strings.TrimSpace(p.Name.Value)
	p.Email.Value = strings.ToLower(strings.TrimSpace(p.Email.Value))

	if p.Name.Set {
		switch {
		case p.Name.Null || p.Name.Value == "":
			fields["name"] = "required"
		case len(p.Name.Value) > 255:
			fields["name"] = "must be at most 255 characters"
		}
	}
	if p.Email.Set {
		if p.Email.Null || p.Email.Value == "" {
			fields["email"] = "required"
		} else if validate.Var(p.Email.Value, "email,max=255") != nil {
			fields["email"] = "must be a valid email address"
		}
	}
	if p.Password.Set {
		if n := len(p.Password.Value); p.Password.Null || n < 8 || n > 72 {
			fields["password"] = "must be between 8 and 72 characters"
		}
	}
	if p.Role.Set && p.Role.Value != RoleAdmin && p.Role.Value != RoleUser {
		fields["role"] = "must be one of: admin user"
	}
	if p.Department.Set && len(p.Department.Value) > 255 {
		fields["department"] = "must be at most 255 characters"
	}
	if p.Phone.Set && len(p.Phone.Value) > 64 {
		fields["phone"] = "must be at most 64 characters"
	}
	return fields
}

// Apply copies the profile fields onto u. The password is hashed by the
// caller.
func (p UserPatch) Apply(u *User) {
	if p.Name.Set {
		u.Name = p.Name.Value
	}
	if p.Email.Set {
		u.Email = p.Email.Value
	}
	if p.Role.Set {
		u.Role = p.Role.Value
	}
	applyText(&u.Department, p.Department)
	applyText(&u.Phone, p.Phone)
}
