// internal/repository/postgres/group_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

// GroupRepository implements repository.GroupRepository for PostgreSQL.
type GroupRepository struct{}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository() repository.GroupRepository {
	return &GroupRepository{}
}

// CreateGroup inserts a new group into the database.
func (r *GroupRepository) CreateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	query := `INSERT INTO groups (id, name, description, created_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.ExecContext(ctx, query, group.ID, group.Name, group.Description, group.CreatedBy, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a group by ID.
func (r *GroupRepository) GetGroupByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Group, error) {
	var group domain.Group
	query := `SELECT id, name, description, created_by, created_at, updated_at FROM groups WHERE id = $1`
	err := q.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group by ID %s: %w", id, err)
	}
	return &group, nil
}

// GetGroupWithMembers retrieves a group and its full membership list.
func (r *GroupRepository) GetGroupWithMembers(ctx context.Context, q repository.DBExecutor, id string) (*domain.GroupWithMembers, error) {
	group, err := r.GetGroupByID(ctx, q, id)
	if err != nil {
		return nil, err
	}

	members := []domain.GroupMemberDetail{}
	query := `
		SELECT gm.user_id, u.name AS user_name, u.email AS user_email, gm.role, gm.joined_at
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at`
	if err := q.SelectContext(ctx, &members, query, id); err != nil {
		return nil, fmt.Errorf("failed to list members of group %s: %w", id, err)
	}

	return &domain.GroupWithMembers{
		Group:       *group,
		Members:     members,
		MemberCount: len(members),
	}, nil
}

// ListGroupsByUser retrieves all groups the user is a member of.
func (r *GroupRepository) ListGroupsByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Group, error) {
	groups := []domain.Group{}
	query := `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC`
	if err := q.SelectContext(ctx, &groups, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list groups for user %s: %w", userID, err)
	}
	return groups, nil
}

// UpdateGroup updates a group's name and description.
func (r *GroupRepository) UpdateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	query := `UPDATE groups SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, group.Name, group.Description, time.Now().UTC(), group.ID)
	if err != nil {
		return fmt.Errorf("failed to update group %s: %w", group.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating group %s: %w", group.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrGroupNotFound
	}
	return nil
}

// DeleteGroup removes a group. Members, expenses, payments and balances
// cascade at the schema level.
func (r *GroupRepository) DeleteGroup(ctx context.Context, q repository.DBExecutor, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting group %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrGroupNotFound
	}
	return nil
}

// AddMember adds a user to a group with the given role.
func (r *GroupRepository) AddMember(ctx context.Context, q repository.DBExecutor, member *domain.GroupMember) error {
	query := `INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`
	_, err := q.ExecContext(ctx, query, member.GroupID, member.UserID, member.Role, member.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to add member %s to group %s: %w", member.UserID, member.GroupID, err)
	}
	return nil
}

// RemoveMember removes a user from a group.
func (r *GroupRepository) RemoveMember(ctx context.Context, q repository.DBExecutor, groupID, userID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member %s from group %s: %w", userID, groupID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after removing member %s: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotGroupMember
	}
	return nil
}

// IsMember reports whether the user belongs to the group.
func (r *GroupRepository) IsMember(ctx context.Context, q repository.DBExecutor, groupID, userID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND user_id = $2`
	if err := q.GetContext(ctx, &count, query, groupID, userID); err != nil {
		return false, fmt.Errorf("failed to check membership of %s in group %s: %w", userID, groupID, err)
	}
	return count > 0, nil
}

// IsAdmin reports whether the user is an admin of the group.
func (r *GroupRepository) IsAdmin(ctx context.Context, q repository.DBExecutor, groupID, userID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND user_id = $2 AND role = 'admin'`
	if err := q.GetContext(ctx, &count, query, groupID, userID); err != nil {
		return false, fmt.Errorf("failed to check admin role of %s in group %s: %w", userID, groupID, err)
	}
	return count > 0, nil
}

// GetMemberIDs retrieves the group's current member IDs ordered by join time.
func (r *GroupRepository) GetMemberIDs(ctx context.Context, q repository.DBExecutor, groupID string) ([]string, error) {
	ids := []string{}
	query := `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY joined_at, user_id`
	if err := q.SelectContext(ctx, &ids, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list member IDs of group %s: %w", groupID, err)
	}
	return ids, nil
}

// LockGroup takes a row lock on the group, serializing concurrent balance
// recomputations for the same group until the surrounding transaction ends.
func (r *GroupRepository) LockGroup(ctx context.Context, q repository.DBExecutor, groupID string) error {
	var id string
	err := q.GetContext(ctx, &id, `SELECT id FROM groups WHERE id = $1 FOR UPDATE`, groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return util.ErrGroupNotFound
		}
		return fmt.Errorf("failed to lock group %s: %w", groupID, err)
	}
	return nil
}
