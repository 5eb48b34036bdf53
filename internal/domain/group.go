// internal/domain/group.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemberRole defines the role of a user inside a group.
type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// Group represents a shared-expense group.
type Group struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GroupMember represents a user's membership in a group.
type GroupMember struct {
	GroupID  string     `db:"group_id" json:"group_id"`
	UserID   string     `db:"user_id" json:"user_id"`
	Role     MemberRole `db:"role" json:"role"`
	JoinedAt time.Time  `db:"joined_at" json:"joined_at"`
}

// GroupWithMembers bundles a group with its expanded membership.
type GroupWithMembers struct {
	Group
	Members     []GroupMemberDetail `json:"members"`
	MemberCount int                 `json:"member_count"`
}

// GroupMemberDetail is a membership row joined with user information.
type GroupMemberDetail struct {
	UserID    string     `db:"user_id" json:"user_id"`
	UserName  string     `db:"user_name" json:"user_name"`
	UserEmail string     `db:"user_email" json:"user_email"`
	Role      MemberRole `db:"role" json:"role"`
	JoinedAt  time.Time  `db:"joined_at" json:"joined_at"`
}

// NewGroup creates a new Group instance with a generated ID.
func NewGroup(name string, description *string, createdBy string) *Group {
	now := time.Now().UTC()
	return &Group{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ValidName reports whether the group name is between 3 and 100 characters.
func (g *Group) ValidName() bool {
	n := len(strings.TrimSpace(g.Name))
	return n >= 3 && n <= 100
}
