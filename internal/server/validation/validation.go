// Package validation turns raw client input into validated records. All
// functions are pure; every failing field is reported, not just the first.
package validation

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("json")
	})
	mustRegister(v, "clean", func(fl validator.FieldLevel) bool {
		return isClean(fl.Field().String())
	})
	mustRegister(v, "number", func(fl validator.FieldLevel) bool {
		_, ok := parseNumber(fl.Field().String())
		return ok
	})
	mustRegister(v, "nonneg", func(fl validator.FieldLevel) bool {
		n, ok := parseNumber(fl.Field().String())
		return ok && n >= 0
	})
	mustRegister(v, "date", func(fl validator.FieldLevel) bool {
		_, ok := parseDate(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// messages maps "<field>.<tag>" to the message shown to the client.
var messages = map[string]string{
	"username.min":         "Username must be between 3 and 30 characters",
	"username.max":         "Username must be between 3 and 30 characters",
	"username.required":    "Username must be between 3 and 30 characters",
	"email.required":       "Please enter a valid email",
	"email.email":          "Please enter a valid email",
	"password.min":         "Password must be at least 6 characters long",
	"password.required":    "Password is required",
	"firstName.required":   "First name is required",
	"lastName.required":    "Last name is required",
	"phoneNumber.required": "Phone number is required",
	"department.required":  "Department is required",
	"position.required":    "Position is required",
	"salary.number":        "Salary must be a number",
	"salary.nonneg":        "Salary must be a positive number",
	"dateOfJoining.date":   "Date of joining must be a valid date",
}

// check runs the struct validator and converts failures into a
// *common.ValidationError.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &common.ValidationError{}
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		switch {
		case ok:
		case fe.Tag() == "clean":
			msg = msgInvalidCharacters
		default:
			msg = "Invalid value"
		}
		ve.Add(fe.Field(), msg)
	}
	return ve.Err()
}

type signupInput struct {
	Username string `json:"username" validate:"required,clean,min=3,max=30"`
	Email    string `json:"email" validate:"required,clean,email"`
	Password string `json:"password" validate:"min=6"`
}

// SignupInput is the raw sign-up payload.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateSignup trims username and email, lowercases email and checks
// lengths. The password is taken verbatim.
func ValidateSignup(in SignupInput) (SignupInput, error) {
	s := signupInput{
		Username: strings.TrimSpace(in.Username),
		Email:    normalizeEmail(in.Email),
		Password: in.Password,
	}
	if err := check(s); err != nil {
		return SignupInput{}, err
	}
	return SignupInput(s), nil
}

type loginInput struct {
	Email    string `json:"email" validate:"required,clean,email"`
	Password string `json:"password" validate:"required"`
}

// LoginInput is the raw login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateLogin normalizes the email and requires a non-empty password.
func ValidateLogin(in LoginInput) (LoginInput, error) {
	s := loginInput{Email: normalizeEmail(in.Email), Password: in.Password}
	if err := check(s); err != nil {
		return LoginInput{}, err
	}
	return LoginInput(s), nil
}

// EmployeeInput is an employee payload as received from a form: every value
// is still text.
type EmployeeInput struct {
	FirstName     string `json:"firstName" validate:"required,clean"`
	LastName      string `json:"lastName" validate:"required,clean"`
	Email         string `json:"email" validate:"required,clean,email"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,clean"`
	Department    string `json:"department" validate:"required,clean"`
	Position      string `json:"position" validate:"required,clean"`
	Salary        string `json:"salary" validate:"number,nonneg"`
	DateOfJoining string `json:"dateOfJoining" validate:"omitempty,date"`
}

// ValidateEmployee trims every field, lowercases the email and parses salary
// and the optional joining date.
func ValidateEmployee(in EmployeeInput) (*models.EmployeeFields, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Department = strings.TrimSpace(in.Department)
	in.Position = strings.TrimSpace(in.Position)
	in.Salary = strings.TrimSpace(in.Salary)
	in.DateOfJoining = strings.TrimSpace(in.DateOfJoining)

	if err := check(in); err != nil {
		return nil, err
	}

	salary, _ := parseNumber(in.Salary)
	f := &models.EmployeeFields{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Department:  in.Department,
		Position:    in.Position,
		Salary:      salary,
	}
	if in.DateOfJoining != "" {
		d, _ := parseDate(in.DateOfJoining)
		f.DateOfJoining = &d
	}
	return f, nil
}

type filterInput struct {
	Department string `json:"department" validate:"clean"`
	Position   string `json:"position" validate:"clean"`
}

// ValidateFilter trims the search criteria. At least one must remain, and
// neither may carry text the store cannot hold.
func ValidateFilter(f models.EmployeeFilter) (models.EmployeeFilter, error) {
	in := filterInput{
		Department: strings.TrimSpace(f.Department),
		Position:   strings.TrimSpace(f.Position),
	}
	if models.EmployeeFilter(in).IsEmpty() {
		return models.EmployeeFilter{}, common.ErrorNoSearchCriteria
	}
	if err := check(in); err != nil {
		return models.EmployeeFilter{}, err
	}
	return models.EmployeeFilter(in), nil
}

const msgInvalidCharacters = "Contains invalid characters"

// isClean rejects NUL bytes and invalid UTF-8, which PostgreSQL text
// columns refuse.
func isClean(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
