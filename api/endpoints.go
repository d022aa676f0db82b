package api

// Backend endpoint paths, relative to the configured base URL.
const (
	PathLogin        = "/auth/login"
	PathLogout       = "/auth/logout"
	PathSendOtp      = "/auth/otp/send"
	PathVerify2FA    = "/auth/login/verify-2fa"
	PathBinding      = "/auth/binding"
	PathCurrentUser  = "/auth/current-user"
	PathVerifyToken  = "/auth/verify"
	PathRegister     = "/auth/register"
	PathUserPassword = "/auth/user/password"
	PathUserBasic    = "/auth/user/basic"
	PathUserAvatar   = "/auth/user/avatar"
	PathTenantList   = "/auth/tenant/account/list"
)
