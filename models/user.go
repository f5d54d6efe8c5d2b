package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for profile authorization.
const (
	RoleShopper = "shopper"
	RoleAdmin   = "admin"
)

var ValidRoles = []string{RoleShopper, RoleAdmin}

// Permission names an admin capability. Handlers ask for a permission, never a role.
type Permission string

const (
	PermManageBooks   Permission = "manage_books"
	PermManageOrders  Permission = "manage_orders"
	PermManageContent Permission = "manage_content"
	PermManageUsers   Permission = "manage_users"
)

var rolePermissions = map[string][]Permission{
	RoleAdmin:   {PermManageBooks, PermManageOrders, PermManageContent, PermManageUsers},
	RoleShopper: nil,
}

// RoleAllows is the single place the stored role string is interpreted.
func RoleAllows(role string, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

func RoleValid(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// Profile is the auth identity plus the shopper's contact and shipping defaults.
type Profile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"` // bcrypt hash
	Role            string             `bson:"role" json:"role"`
	FullName        string             `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address         string             `bson:"address,omitempty" json:"address,omitempty"`
	City            string             `bson:"city,omitempty" json:"city,omitempty"`
	ProfileComplete bool               `bson:"profileComplete" json:"profileComplete"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

func (p *Profile) Can(perm Permission) bool {
	return RoleAllows(p.Role, perm)
}

// Complete reports whether every field an order needs is filled in.
func (p *Profile) Complete() bool {
	return strings.TrimSpace(p.FullName) != "" &&
		strings.TrimSpace(p.Phone) != "" &&
		strings.TrimSpace(p.Address) != "" &&
		strings.TrimSpace(p.City) != ""
}
