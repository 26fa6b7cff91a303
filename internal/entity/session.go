package entity

import "github.com/golang-jwt/jwt/v5"

type Claims struct {
	jwt.RegisteredClaims

	SessionID  string `json:"sid"`
	EmployeeID int64  `json:"eid"`
	Role       Role   `json:"role"`
}
