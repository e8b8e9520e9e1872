package api

import (
	"io"
	"time"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Employee struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber"`
	Department     string    `json:"department"`
	Position       string    `json:"position"`
	Salary         float64   `json:"salary"`
	ProfilePicture string    `json:"profilePicture"`
	DateOfJoining  time.Time `json:"dateOfJoining"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EmployeeForm is what the add and edit screens submit. Values are sent as
// typed; the server validates them.
type EmployeeForm struct {
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
	Department    string
	Position      string
	Salary        string
	DateOfJoining string
}

func (f EmployeeForm) fields() [][2]string {
	return [][2]string{
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"email", f.Email},
		{"phoneNumber", f.PhoneNumber},
		{"department", f.Department},
		{"position", f.Position},
		{"salary", f.Salary},
		{"dateOfJoining", f.DateOfJoining},
	}
}

// Upload is a picture attached to an employee form.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type StoreHealth struct {
	Status     string `json:"status"`
	ReadyState int    `json:"readyState"`
}

type Health struct {
	Status string      `json:"status"`
	Store  StoreHealth `json:"store"`
	Server string      `json:"server"`
}
