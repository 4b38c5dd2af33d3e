// Package common holds wire-level constants shared by the chatdesk client and
// the development backend.
package common

// AuthorizationHeader carries the bearer credential on authenticated calls.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// Backend routes. Trailing slashes are significant: the backend framework
// treats "/users/" and "/users" as different routes.
const (
	PathToken          = "/token"
	PathUsers          = "/users/"
	PathCurrentUser    = "/users/me/"
	PathUpdatePlan     = "/users/me/update-plan"
	PathUpdatePassword = "/users/me/update-password"
	PathAdminDashboard = "/admin/dashboard/"
	PathRegularDash    = "/regular/dashboard/"
	PathAdminUsers     = "/admin/users/"
	PathDocuments      = "/documents/"
	PathUploadDocument = "/upload-document/"
	PathQuery          = "/query/"
	PathGenerateImage  = "/generate-image/"
	PathImages         = "/images/"
)
