package entity

import (
	"bytes"
	"fmt"
	"strconv"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RecordID accepts both JSON numbers and numeric strings, the latter being
// what browsers send from data attributes.
type RecordID int64

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("empty id")
	}

	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", data, err)
	}

	*id = RecordID(v)
	return nil
}

// Flag accepts true/false, 1/0 and their quoted forms.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.Trim(data, `"`)) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", data)
	}

	return nil
}

type AddEmployeeRequest struct {
	LastName       string `json:"lastName"`
	FirstName      string `json:"firstName"`
	Department     string `json:"department"`
	Role           Role   `json:"role"`
	Date           string `json:"date"`
	EmploymentDate string `json:"employmentDate"`
	County         string `json:"county"`
	Phone          string `json:"phone"`
	PhoneNumber    string `json:"phoneNumber"`
	ItsActive      *Flag  `json:"itsActive"`
}

// NewEmployee folds the alternative field names older clients send.
func (r AddEmployeeRequest) NewEmployee() NewEmployee {
	ne := NewEmployee{
		LastName:       r.LastName,
		FirstName:      r.FirstName,
		Department:     r.Department,
		Role:           r.Role,
		EmploymentDate: r.Date,
		County:         r.County,
		PhoneNumber:    r.Phone,
		ItsActive:      true,
	}

	if ne.EmploymentDate == "" {
		ne.EmploymentDate = r.EmploymentDate
	}
	if ne.PhoneNumber == "" {
		ne.PhoneNumber = r.PhoneNumber
	}
	if r.ItsActive != nil {
		ne.ItsActive = bool(*r.ItsActive)
	}

	return ne
}

type NewEmployee struct {
	LastName       string
	FirstName      string
	Department     string
	Role           Role
	EmploymentDate string
	County         string
	PhoneNumber    string
	ItsActive      bool
}

type FilterRequest struct {
	FilterBy         string `json:"filterBy"`
	FilterRole       string `json:"filterRole"`
	FilterDepartment string `json:"filterDepartment"`
	SearchBar        string `json:"searchBar"`
}

func (r FilterRequest) Params() FilterParams {
	return FilterParams{
		SortBy:     SortKey(r.FilterBy),
		Role:       r.FilterRole,
		Department: r.FilterDepartment,
		Search:     r.SearchBar,
	}
}

type SortKey string

const (
	SortNameAsc  SortKey = "asc"
	SortNameDesc SortKey = "desc"
	SortDateAsc  SortKey = "date_asc"
	SortDateDesc SortKey = "date_desc"
)

type FilterParams struct {
	SortBy     SortKey
	Role       string
	Department string
	Search     string
}

type DeleteRequest struct {
	UserID RecordID `json:"userID"`
}

type EditRequest struct {
	ID         RecordID `json:"ID"`
	LastName   string   `json:"lastName"`
	FirstName  string   `json:"firstName"`
	Department string   `json:"department"`
	Role       string   `json:"role"`
	Date       string   `json:"date"`
	County     string   `json:"county"`
	Phone      string   `json:"phone"`
}

// Fields maps each editable column to its submitted value; empty values are
// left untouched by the update.
func (r EditRequest) Fields() UpdateFields {
	return UpdateFields{
		LastName:       r.LastName,
		FirstName:      r.FirstName,
		Department:     r.Department,
		Role:           r.Role,
		EmploymentDate: r.Date,
		County:         r.County,
		PhoneNumber:    r.Phone,
	}
}

type UpdateFields struct {
	LastName       string
	FirstName      string
	Department     string
	Role           string
	EmploymentDate string
	County         string
	PhoneNumber    string
}

type Category string

const (
	CategorySuccess Category = "Success"
	CategoryError   Category = "Error"
	CategoryInfo    Category = "Info"
)

type MessageResponse struct {
	Message  string   `json:"message"`
	Category Category `json:"category"`
}

type LoginErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}
