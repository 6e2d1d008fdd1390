package handler

import "time"

// ErrorResponse is the envelope for validation, conflict and server errors.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// AuthErrorResponse is returned on 401 and 403.
type AuthErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type signupRequest struct {
	Username string `json:"username" validate:"required,min=4,max=20,alphanum"`
	Password string `json:"password" validate:"notblank,min=7"`
	Email    string `json:"email"    validate:"omitempty,email"`
	RoleName string `json:"roleName" validate:"notblank"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	RoleName string `json:"roleName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Books ---

// BookID is a pointer so that a missing id is told apart from zero.
type saveBookRequest struct {
	BookID  *int64 `json:"bookId"  validate:"required"`
	Title   string `json:"title"   validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

type bookResponse struct {
	BookID         int64            `json:"bookId"`
	Title          string           `json:"title"`
	Content        string           `json:"content"`
	AuthorUsername string           `json:"authorUsername"`
	AverageRating  float64          `json:"averageRating"`
	Reviews        []reviewResponse `json:"reviews"`
}

// --- Reviews ---

type writeReviewRequest struct {
	Rating  *int   `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type reviewResponse struct {
	ReviewerUsername string    `json:"reviewerUsername"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	Timestamp        time.Time `json:"timestamp"`
}

// --- Admin ---

type deleteUserResponse struct {
	Deleted int64 `json:"deleted"`
}
