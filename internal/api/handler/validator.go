package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries one user-facing message per failed field rule.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", notBlank)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &ValidationError{Messages: msgs}
		}
		return err
	}
	return nil
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// messages holds the wording clients rely on, keyed by "<json field>.<tag>".
var messages = map[string]string{
	"username.required": "Invalid Username: Empty username",
	"username.min":      "Invalid Username: username must be between 4 and 20 characters",
	"username.max":      "Invalid Username: username must be between 4 and 20 characters",
	"username.alphanum": "Username should not contain special characters or spaces",
	"password.notblank": "Invalid Password: Empty password",
	"password.min":      "Invalid Password: password must be at least 7 characters",
	"roleName.notblank": "RoleName is mandatory",
	"email.email":       "Invalid Email: email must be a valid address",

	"bookId.required":  "Book ID is mandatory",
	"title.notblank":   "Title is mandatory",
	"content.notblank": "Content is mandatory",

	"rating.required": "Rating is mandatory",
	"rating.min":      "Rating must be at least 1",
	"rating.max":      "Rating must be at most 5",
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is mandatory"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
