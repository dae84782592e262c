package models

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account entity used for authentication and authorization.
// Sensitive fields must never be exposed outside trusted boundaries; use
// [User.Public] to obtain the projection that may leave the server.
type User struct {
	// UserID is the unique identifier of the user. Immutable once assigned.
	UserID int64 `json:"id"`

	// Username is the unique login identifier. It may be an email address.
	Username string `json:"username"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Role defines which endpoints the user may call.
	Role Role `json:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// It is never serialized.
	PasswordHash string `json:"-"`

	// Image is the public URL of the user's avatar, if any.
	Image *string `json:"image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// PublicUser is the allow-listed view of a [User]. New fields added to User
// are not exposed until they are added here explicitly.
type PublicUser struct {
	UserID    int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the public projection of u.
func (u User) Public() PublicUser {
	return PublicUser{
		UserID:    u.UserID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

// Principal returns the identity carried by tokens issued to u.
func (u User) Principal() Principal {
	return u.Public().Principal()
}

// Principal returns the identity carried by tokens issued to u.
func (u PublicUser) Principal() Principal {
	return Principal{UserID: u.UserID, Username: u.Username, Role: u.Role}
}

// SignUpRequest is the body of the sign-up endpoint.
type SignUpRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInRequest is the body of the sign-in endpoint.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest is a partial update of an account. Only non-nil fields
// are applied.
type UpdateUserRequest struct {
	UserID   int64   `json:"userId"`
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

// UserPatch is the store-level form of [UpdateUserRequest] with the password
// already hashed.
type UserPatch struct {
	Name         *string
	Username     *string
	PasswordHash *string
	Role         *Role
	Image        *string
	ClearImage   bool
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Username == nil && p.PasswordHash == nil &&
		p.Role == nil && p.Image == nil && !p.ClearImage
}
