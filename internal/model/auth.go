package model

import "github.com/golang-jwt/jwt/v5"

type Role string

const (
	RoleStudent   Role = "student"
	RoleCounselor Role = "counselor"
	RoleAdmin     Role = "admin"
)

// UserClaims are the JWT claims carried by platform tokens
type UserClaims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// IsStaff reports whether the caller may read other users' data
func (c *UserClaims) IsStaff() bool {
	return c.Role == RoleCounselor || c.Role == RoleAdmin
}
