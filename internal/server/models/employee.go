package models

import "time"

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

// EmployeeFields is a validated create/update payload. A nil DateOfJoining
// means "not supplied".
type EmployeeFields struct {
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
	Department    string
	Position      string
	Salary        float64
	DateOfJoining *time.Time
}

// Apply copies f onto e, keeping e.DateOfJoining when f carries none.
func (f *EmployeeFields) Apply(e *Employee) {
	e.FirstName = f.FirstName
	e.LastName = f.LastName
	e.Email = f.Email
	e.PhoneNumber = f.PhoneNumber
	e.Department = f.Department
	e.Position = f.Position
	e.Salary = f.Salary
	if f.DateOfJoining != nil {
		e.DateOfJoining = *f.DateOfJoining
	}
}

// EmployeeFilter narrows a search; empty fields are ignored.
type EmployeeFilter struct {
	Department string
	Position   string
}

func (f EmployeeFilter) IsEmpty() bool {
	return f.Department == "" && f.Position == ""
}
