// Package users covers the account-profile surface of the backend:
// registration, password change, profile reads and updates, and the
// tenant member listing.
package users

// TenantMember is a read-only projection of an account inside the
// session's tenant. There is no mutation path for members here.
type TenantMember struct {
	UserNo   string `json:"userNo"`
	Account  string `json:"account"`
	UserName string `json:"userName"`
}

// Basic is the user's editable profile.
type Basic struct {
	NickName   string `json:"nickName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	AvatarLink string `json:"avatarLink"`
}

// BasicUpdate carries a partial profile update; nil fields are left
// untouched by the backend.
type BasicUpdate struct {
	NickName   *string `json:"nickName,omitempty"`
	AvatarLink *string `json:"avatarLink,omitempty"`
}

// RegisterParams creates an account. The phone number doubles as the
// login account; the tenant number scopes the account to an
// enterprise.
type RegisterParams struct {
	Phone           string  `json:"phone"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	NickName        string  `json:"nickName"`
	TenantNo        string  `json:"tenantNo"`
	AvatarLink      *string `json:"avatarLink,omitempty"`
}

// UpdatePasswordParams changes the password for the current session's
// account. Password policy is enforced server-side.
type UpdatePasswordParams struct {
	OldPassword string `json:"oldPassword"`
	Password    string `json:"password"`
}

// AvatarUploadParams requests a pre-signed avatar upload form.
type AvatarUploadParams struct {
	OriginFileName string `json:"originFileName"`
}
