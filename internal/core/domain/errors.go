package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("bad credentials")
	ErrRoleExists         = errors.New("role already exists")
	ErrRoleNotFound       = errors.New("role not found")
)

var (
	ErrBookExists       = errors.New("book already exists")
	ErrDuplicateTitle   = errors.New("you have already published a book with this title")
	ErrBookNotFound     = errors.New("book not found")
	ErrAuthorNotFound   = errors.New("author not found")
	ErrReviewerNotFound = errors.New("reviewer not found")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

// Token validation failures. All of them reject the credential; the
// distinction only feeds logs and metrics.
var (
	ErrTokenMalformed   = errors.New("malformed token")
	ErrTokenSignature   = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenUnsupported = errors.New("unsupported token")
	ErrTokenClaimsEmpty = errors.New("token claims empty")
)

// TokenFailureReason maps a token error to a short label.
func TokenFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrTokenSignature):
		return "signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenUnsupported):
		return "unsupported"
	case errors.Is(err, ErrTokenClaimsEmpty):
		return "claims_empty"
	case errors.Is(err, ErrUserNotFound):
		return "unknown_subject"
	default:
		return "other"
	}
}
