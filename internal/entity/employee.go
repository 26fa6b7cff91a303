package entity

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleSuport Role = "Suport"
	RoleTehnic Role = "Tehnic"
)

type Employee struct {
	ID             int64     `json:"id"`
	LastName       string    `json:"last_name"`
	FirstName      string    `json:"first_name"`
	Password       string    `json:"-"`
	Department     string    `json:"department"`
	Role           Role      `json:"role"`
	EmploymentDate time.Time `json:"employment_date"`
	County         string    `json:"county"`
	PhoneNumber    string    `json:"phone_number"`
	ItsActive      bool      `json:"its_active"`
}

// DisplayName is the "LastName FirstName" form used for login and messages.
func (e Employee) DisplayName() string {
	return e.LastName + " " + e.FirstName
}

type employeeJSON struct {
	ID             int64  `json:"id"`
	LastName       string `json:"last_name"`
	FirstName      string `json:"first_name"`
	Department     string `json:"department"`
	Role           Role   `json:"role"`
	EmploymentDate string `json:"employment_date"`
	County         string `json:"county"`
	PhoneNumber    string `json:"phone_number"`
	ItsActive      bool   `json:"its_active"`
}

func (e Employee) MarshalJSON() ([]byte, error) {
	return json.Marshal(employeeJSON{
		ID:             e.ID,
		LastName:       e.LastName,
		FirstName:      e.FirstName,
		Department:     e.Department,
		Role:           e.Role,
		EmploymentDate: e.EmploymentDate.Format(DateLayout),
		County:         e.County,
		PhoneNumber:    e.PhoneNumber,
		ItsActive:      e.ItsActive,
	})
}

func (e *Employee) UnmarshalJSON(data []byte) error {
	var raw employeeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var date time.Time
	if raw.EmploymentDate != "" {
		parsed, err := time.Parse(DateLayout, raw.EmploymentDate)
		if err != nil {
			return err
		}
		date = parsed
	}

	*e = Employee{
		ID:             raw.ID,
		LastName:       raw.LastName,
		FirstName:      raw.FirstName,
		Department:     raw.Department,
		Role:           raw.Role,
		EmploymentDate: date,
		County:         raw.County,
		PhoneNumber:    raw.PhoneNumber,
		ItsActive:      raw.ItsActive,
	}

	return nil
}

type RoleStats struct {
	Admin  int64 `json:"admin"`
	Suport int64 `json:"suport"`
	Tehnic int64 `json:"tehnic"`
	NonIT  int64 `json:"non_it"`
}
