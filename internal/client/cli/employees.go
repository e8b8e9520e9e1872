package cli

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/staffbook/internal/client/api"
)

const dateLayout = "2006-01-02"

func (a *App) List(ctx context.Context) error {
	list, err := a.api.ListEmployees(ctx)
	if err != nil {
		return a.checkAuth(ctx, err)
	}
	a.printEmployees(list)
	return nil
}

func (a *App) Search(ctx context.Context) error {
	a.println("Leave a field empty to ignore it.")
	department, err := GetSimpleText(a.reader, "Department", a.out)
	if err != nil {
		return err
	}
	position, err := GetSimpleText(a.reader, "Position", a.out)
	if err != nil {
		return err
	}

	list, err := a.api.SearchEmployees(ctx, department, position)
	if err != nil {
		return a.checkAuth(ctx, err)
	}
	a.printEmployees(list)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	e, err := a.api.GetEmployee(ctx, id)
	if err != nil {
		return a.checkAuth(ctx, err)
	}
	a.printEmployee(e)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	f, pic, err := a.readEmployeeForm(nil)
	if err != nil {
		return err
	}
	if pic != nil {
		defer pic.close()
	}

	e, err := a.api.CreateEmployee(ctx, f, pic.upload())
	if err != nil {
		return a.checkAuth(ctx, err)
	}
	a.println("Employee created successfully, id:", e.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, id string) error {
	current, err := a.api.GetEmployee(ctx, id)
	if err != nil {
		return a.checkAuth(ctx, err)
	}

	a.println("Press Enter to keep the current value.")
	f, pic, err := a.readEmployeeForm(current)
	if err != nil {
		return err
	}
	if pic != nil {
		defer pic.close()
	}

	if _, err := a.api.UpdateEmployee(ctx, id, f, pic.upload()); err != nil {
		return a.checkAuth(ctx, err)
	}
	a.println("Employee updated successfully")
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete employee %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		a.println("Cancelled.")
		return nil
	}

	if err := a.api.DeleteEmployee(ctx, id); err != nil {
		return a.checkAuth(ctx, err)
	}
	a.println("Employee deleted successfully")
	return nil
}

type pictureFile struct {
	api.Upload
	close func() error
}

func (p *pictureFile) upload() *api.Upload {
	if p == nil {
		return nil
	}
	return &p.Upload
}

// readEmployeeForm prompts for every employee field. With current set, its
// values are offered as defaults.
func (a *App) readEmployeeForm(current *api.Employee) (api.EmployeeForm, *pictureFile, error) {
	var cur api.EmployeeForm
	if current != nil {
		cur = api.EmployeeForm{
			FirstName:   current.FirstName,
			LastName:    current.LastName,
			Email:       current.Email,
			PhoneNumber: current.PhoneNumber,
			Department:  current.Department,
			Position:    current.Position,
			Salary:      strconv.FormatFloat(current.Salary, 'f', -1, 64),
		}
		if !current.DateOfJoining.IsZero() {
			cur.DateOfJoining = current.DateOfJoining.Format(dateLayout)
		}
	}

	var f api.EmployeeForm
	prompts := []struct {
		label   string
		current string
		dst     *string
	}{
		{"First name", cur.FirstName, &f.FirstName},
		{"Last name", cur.LastName, &f.LastName},
		{"Email", cur.Email, &f.Email},
		{"Phone number", cur.PhoneNumber, &f.PhoneNumber},
		{"Department", cur.Department, &f.Department},
		{"Position", cur.Position, &f.Position},
		{"Salary", cur.Salary, &f.Salary},
		{"Date of joining (YYYY-MM-DD, empty for today)", cur.DateOfJoining, &f.DateOfJoining},
	}
	for _, p := range prompts {
		v, err := GetWithDefault(a.reader, p.label, p.current, a.out)
		if err != nil {
			return api.EmployeeForm{}, nil, err
		}
		*p.dst = v
	}

	path, err := GetSimpleText(a.reader, "Profile picture file (optional)", a.out)
	if err != nil {
		return api.EmployeeForm{}, nil, err
	}
	if path == "" {
		return f, nil, nil
	}

	pic, err := a.openPicture(path)
	if err != nil {
		return api.EmployeeForm{}, nil, err
	}
	return f, pic, nil
}

func (a *App) openPicture(path string) (*pictureFile, error) {
	r, err := a.openFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening picture: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &pictureFile{
		Upload: api.Upload{Filename: filepath.Base(path), ContentType: ct, Body: r},
		close:  r.Close,
	}, nil
}

func (a *App) printEmployees(list []api.Employee) {
	if len(list) == 0 {
		a.println("No employees found.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tDEPARTMENT\tPOSITION\tSALARY")
	for _, e := range list {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%.2f\n",
			e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.Salary)
	}
	w.Flush()
}

func (a *App) printEmployee(e *api.Employee) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", e.ID)
	fmt.Fprintf(w, "Name:\t%s %s\n", e.FirstName, e.LastName)
	fmt.Fprintf(w, "Email:\t%s\n", e.Email)
	fmt.Fprintf(w, "Phone:\t%s\n", e.PhoneNumber)
	fmt.Fprintf(w, "Department:\t%s\n", e.Department)
	fmt.Fprintf(w, "Position:\t%s\n", e.Position)
	fmt.Fprintf(w, "Salary:\t%.2f\n", e.Salary)
	fmt.Fprintf(w, "Joined:\t%s\n", e.DateOfJoining.Format(dateLayout))
	if e.ProfilePicture != "" {
		fmt.Fprintf(w, "Picture:\t%s\n", a.api.PictureURL(e.ProfilePicture))
	}
	w.Flush()
}
