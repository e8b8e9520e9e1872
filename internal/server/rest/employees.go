package rest

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/dmitrijs2005/staffbook/internal/server/storage"
	"github.com/dmitrijs2005/staffbook/internal/server/validation"
	"github.com/gofiber/fiber/v2"
)

type employeeResponse struct {
	Message  string           `json:"message"`
	Employee *models.Employee `json:"employee"`
}

// employeeForm reads the text fields of a multipart or urlencoded form.
func employeeForm(c *fiber.Ctx) validation.EmployeeInput {
	return validation.EmployeeInput{
		FirstName:     c.FormValue("firstName"),
		LastName:      c.FormValue("lastName"),
		Email:         c.FormValue("email"),
		PhoneNumber:   c.FormValue("phoneNumber"),
		Department:    c.FormValue("department"),
		Position:      c.FormValue("position"),
		Salary:        c.FormValue("salary"),
		DateOfJoining: c.FormValue("dateOfJoining"),
	}
}

// formPicture returns the uploaded picture, or nil when the request carries
// none. The returned closer must be called once the picture is consumed.
func formPicture(c *fiber.Ctx) (*storage.Picture, io.Closer, error) {
	fh, err := c.FormFile(storage.PictureField)
	if err != nil {
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}

	return &storage.Picture{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func (s *Server) createEmployee(c *fiber.Ctx) error {
	pic, closer, err := formPicture(c)
	if err != nil {
		return s.fail(c, err, "creating employee")
	}
	if closer != nil {
		defer closer.Close()
	}

	e, err := s.employees.Create(c.UserContext(), employeeForm(c), pic)
	if err != nil {
		return s.fail(c, err, "creating employee")
	}

	return c.Status(fiber.StatusCreated).JSON(employeeResponse{
		Message:  "Employee created successfully",
		Employee: e,
	})
}

func (s *Server) listEmployees(c *fiber.Ctx) error {
	list, err := s.employees.List(c.UserContext())
	if err != nil {
		return s.fail(c, err, "fetching employees")
	}
	return c.JSON(list)
}

func (s *Server) searchEmployees(c *fiber.Ctx) error {
	list, err := s.employees.Search(c.UserContext(), models.EmployeeFilter{
		Department: c.Query("department"),
		Position:   c.Query("position"),
	})
	if err != nil {
		return s.fail(c, err, "searching employees")
	}
	return c.JSON(list)
}

func (s *Server) getEmployee(c *fiber.Ctx) error {
	e, err := s.employees.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err, "fetching employee")
	}
	return c.JSON(e)
}

func (s *Server) updateEmployee(c *fiber.Ctx) error {
	pic, closer, err := formPicture(c)
	if err != nil {
		return s.fail(c, err, "updating employee")
	}
	if closer != nil {
		defer closer.Close()
	}

	e, err := s.employees.Update(c.UserContext(), c.Params("id"), employeeForm(c), pic)
	if err != nil {
		return s.fail(c, err, "updating employee")
	}

	return c.JSON(employeeResponse{
		Message:  "Employee updated successfully",
		Employee: e,
	})
}

func (s *Server) deleteEmployee(c *fiber.Ctx) error {
	if err := s.employees.Delete(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err, "deleting employee")
	}
	return respond(c, fiber.StatusOK, "Employee deleted successfully")
}
