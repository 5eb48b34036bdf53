// internal/repository/group_repo.go
package repository

import (
	"context"

	"splitledger/internal/domain"
)

// GroupRepository defines the interface for group and membership data operations.
type GroupRepository interface {
	// CreateGroup adds a new group using the provided DBExecutor.
	CreateGroup(ctx context.Context, q DBExecutor, group *domain.Group) error
	// GetGroupByID retrieves a group by its ID.
	GetGroupByID(ctx context.Context, q DBExecutor, id string) (*domain.Group, error)
	// GetGroupWithMembers retrieves a group with its full membership list.
	GetGroupWithMembers(ctx context.Context, q DBExecutor, id string) (*domain.GroupWithMembers, error)
	// ListGroupsByUser retrieves all groups the user is a member of.
	ListGroupsByUser(ctx context.Context, q DBExecutor, userID string) ([]domain.Group, error)
	// UpdateGroup updates a group's name and description.
	UpdateGroup(ctx context.Context, q DBExecutor, group *domain.Group) error
	// DeleteGroup removes a group; members, expenses, payments and balances
	// cascade at the schema level.
	DeleteGroup(ctx context.Context, q DBExecutor, id string) error

	// AddMember adds a user to a group with the given role.
	AddMember(ctx context.Context, q DBExecutor, member *domain.GroupMember) error
	// RemoveMember removes a user from a group. Returns ErrNotGroupMember
	// if the user was not a member.
	RemoveMember(ctx context.Context, q DBExecutor, groupID, userID string) error
	// IsMember reports whether the user belongs to the group.
	IsMember(ctx context.Context, q DBExecutor, groupID, userID string) (bool, error)
	// IsAdmin reports whether the user is an admin of the group.
	IsAdmin(ctx context.Context, q DBExecutor, groupID, userID string) (bool, error)
	// GetMemberIDs retrieves the IDs of the group's current members, ordered
	// by join time. This ordering feeds balance computation and must be stable.
	GetMemberIDs(ctx context.Context, q DBExecutor, groupID string) ([]string, error)

	// LockGroup acquires a row lock on the group for the duration of the
	// surrounding transaction, serializing balance recomputation per group.
	LockGroup(ctx context.Context, q DBExecutor, groupID string) error
}
