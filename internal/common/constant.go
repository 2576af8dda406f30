package common

// Credential names used in both persistence mediums (cookie jar and the
// local store). Server-side route guards read the same cookie names, so
// they must not change without coordinating with the backend.
const (
	AccessTokenName  = "access_token"
	RefreshTokenName = "refresh_token"
)

// AuthorizationHeader carries the bearer access token on outbound requests.
const AuthorizationHeader = "Authorization"

// RequestIDHeader carries a client-generated id for request correlation.
const RequestIDHeader = "X-Request-Id"

// API paths of the remote task service.
const (
	TokenPath        = "/token"
	TokenRefreshPath = "/token/refresh"
	RegisterPath     = "/register"
	TasksPath        = "/tasks"
	MePath           = "/users/me"
)
