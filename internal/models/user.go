package models

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTestTaker Role = "testTaker"
)
