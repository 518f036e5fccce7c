package roster

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/squadpick/internal/contracts"
)

// ValidationError is one rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of one request, in field order
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records a failure; only the first failure per field is kept
func (e *ValidationErrors) add(field, message string) {
	for _, v := range *e {
		if v.Field == field {
			return
		}
	}
	*e = append(*e, ValidationError{Field: field, Message: message})
}

func (e ValidationErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// htmlEscaper matches the entity set browsers-facing sanitizers use for free text
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// sanitize trims and HTML-escapes free text shown to other players
func sanitize(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}

// checker validates request structs by their `validate` tags and reports
// fields by their json names
// ⭐ SSOT: enum 태그는 contracts의 Valid()를 그대로 사용
var checker = newChecker()

func newChecker() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	enums := map[string]func(string) bool{
		"position": func(s string) bool { return contracts.Position(s).Valid() },
		"foot":     func(s string) bool { return contracts.Foot(s).Valid() },
		"status":   func(s string) bool { return contracts.Status(s).Valid() },
		"role":     func(s string) bool { return contracts.Role(s).Valid() },
	}
	for tag, valid := range enums {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

const nonNegative = "Must be a non-negative integer"

// messages maps "field.tag" (or just "field") to the text shown to clients
var messages = map[string]string{
	"username.required": "Username is required",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"player.required":   "Player name is required",
	"height.required":   "Height is required",
	"height":            "Height must be a number (e.g., 1.75)",
	"position":          "Invalid position",
	"preferredFoot":     "Invalid preferred foot",
	"profilePicUrl":     "Invalid image URL",
	"status":            "Invalid status",
	"role":              "Invalid role",
	"matches":           nonNegative,
	"goals":             nonNegative,
	"minPlayed":         nonNegative,
	"score.required":    "Rating is required",
	"score":             fmt.Sprintf("Rating must be an integer between %d and %d", contracts.MinScore, contracts.MaxScore),
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := messages[fe.Field()]; ok {
		return m
	}
	return fe.Error()
}

// check runs the struct tags of in and collects failures in field order
func check(in interface{}) ValidationErrors {
	var errs ValidationErrors
	err := checker.Struct(in)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.add("request", err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		errs.add(fe.Field(), message(fe))
	}
	return errs
}

// RegisterInput is the body of a registration request
type RegisterInput struct {
	Username      string   `json:"username" validate:"required"`
	Password      string   `json:"password" validate:"min=6"`
	Player        string   `json:"player" validate:"required"`
	Height        *float64 `json:"height" validate:"required,gte=1,lte=2.5"`
	Position      string   `json:"position" validate:"position"`
	PreferredFoot string   `json:"preferredFoot" validate:"foot"`
	ProfilePicURL string   `json:"profilePicUrl" validate:"omitempty,http_url"`
}

// normalize validates the input and returns the user to store (without id or hash)
func (in RegisterInput) normalize() (contracts.User, error) {
	in.Username = sanitize(in.Username)
	in.Player = sanitize(in.Player)
	in.ProfilePicURL = strings.TrimSpace(in.ProfilePicURL)

	if err := check(in).err(); err != nil {
		return contracts.User{}, err
	}

	u := contracts.User{
		Username:      in.Username,
		Player:        in.Player,
		Height:        *in.Height,
		Position:      contracts.Position(in.Position),
		PreferredFoot: contracts.Foot(in.PreferredFoot),
		Status:        contracts.StatusReady,
		Role:          contracts.RolePlayer,
	}
	if in.ProfilePicURL != "" {
		pic := in.ProfilePicURL
		u.ProfilePicURL = &pic
	}
	return u, nil
}

// LoginInput is the body of a login request
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (in LoginInput) normalize() (LoginInput, error) {
	in.Username = sanitize(in.Username)
	return in, check(in).err()
}

// UpdateInput carries optional profile changes. Absent fields stay untouched;
// an empty profilePicUrl clears the picture.
type UpdateInput struct {
	Player        *string  `json:"player" validate:"omitnil,required"`
	Height        *float64 `json:"height" validate:"omitnil,gte=1,lte=2.5"`
	Position      *string  `json:"position" validate:"omitnil,position"`
	PreferredFoot *string  `json:"preferredFoot" validate:"omitnil,foot"`
	ProfilePicURL *string  `json:"profilePicUrl" validate:"omitempty,http_url"`
	Status        *string  `json:"status" validate:"omitnil,status"`
	Password      *string  `json:"password" validate:"omitnil,min=6"`
	Matches       *int     `json:"matches" validate:"omitnil,min=0"`
	Goals         *int     `json:"goals" validate:"omitnil,min=0"`
	MinPlayed     *int     `json:"minPlayed" validate:"omitnil,min=0"`
	Role          *string  `json:"role" validate:"omitnil,role"`
}

// toUpdate validates the input. The password is returned separately so the
// caller can hash it; Role is honored only when allowRole is set.
func (in UpdateInput) toUpdate(allowRole bool) (contracts.ProfileUpdate, *string, error) {
	if in.Player != nil {
		player := sanitize(*in.Player)
		in.Player = &player
	}
	if in.ProfilePicURL != nil {
		pic := strings.TrimSpace(*in.ProfilePicURL)
		in.ProfilePicURL = &pic
	}

	var errs ValidationErrors
	if in.Role != nil && !allowRole {
		// role is the last field, so field order is kept
		rest := in
		rest.Role = nil
		errs = check(rest)
		errs.add("role", "Only an admin can change roles")
	} else {
		errs = check(in)
	}
	if err := errs.err(); err != nil {
		return contracts.ProfileUpdate{}, nil, err
	}

	up := contracts.ProfileUpdate{
		Player:        in.Player,
		Height:        in.Height,
		ProfilePicURL: in.ProfilePicURL,
		Matches:       in.Matches,
		Goals:         in.Goals,
		MinPlayed:     in.MinPlayed,
	}
	if in.Position != nil {
		pos := contracts.Position(*in.Position)
		up.Position = &pos
	}
	if in.PreferredFoot != nil {
		foot := contracts.Foot(*in.PreferredFoot)
		up.PreferredFoot = &foot
	}
	if in.Status != nil {
		status := contracts.Status(*in.Status)
		up.Status = &status
	}
	if in.Role != nil {
		role := contracts.Role(*in.Role)
		up.Role = &role
	}
	return up, in.Password, nil
}

type scoreInput struct {
	Score *int `json:"score" validate:"required,gte=1,lte=10"`
}

func validateScore(score *int) error {
	return check(scoreInput{Score: score}).err()
}
