// internal/service/group_service.go
package service

import (
	"context"
	"fmt"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
	"splitledger/pkg/db"
)

// GroupService defines the interface for group and membership business
// logic. Membership changes rebuild the group's balances in the same
// transaction, because the equal split is over current members only.
type GroupService interface {
	CreateGroup(ctx context.Context, name string, description *string, createdBy string) (*domain.GroupWithMembers, error)
	GetGroup(ctx context.Context, id string) (*domain.GroupWithMembers, error)
	ListUserGroups(ctx context.Context, userID string) ([]domain.Group, error)
	UpdateGroup(ctx context.Context, id, requestedBy, name string, description *string) (*domain.GroupWithMembers, error)
	DeleteGroup(ctx context.Context, id, requestedBy string) error
	AddMember(ctx context.Context, groupID, userID string, role domain.MemberRole, requestedBy string) (*domain.GroupWithMembers, error)
	RemoveMember(ctx context.Context, groupID, userID, requestedBy string) error
}

// groupService implements the GroupService interface.
type groupService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	balanceRepo repository.BalanceRepository
	balanceSvc  BalanceService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewGroupService creates a new instance of GroupService.
func NewGroupService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	balanceRepo repository.BalanceRepository,
	balanceSvc BalanceService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) GroupService {
	return &groupService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		balanceRepo: balanceRepo,
		balanceSvc:  balanceSvc,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// CreateGroup creates a group and enrolls the creator as its admin.
func (s *groupService) CreateGroup(ctx context.Context, name string, description *string, createdBy string) (*domain.GroupWithMembers, error) {
	group := domain.NewGroup(name, description, createdBy)
	if !group.ValidName() {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, createdBy); err != nil {
		return nil, fmt.Errorf("create group: failed to get creator %s: %w", createdBy, err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create group: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create group: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.CreateGroup(ctx, txExecutor, group); err != nil {
		return nil, fmt.Errorf("create group: failed to create group: %w", err)
	}
	member := &domain.GroupMember{GroupID: group.ID, UserID: createdBy, Role: domain.RoleAdmin}
	if err := s.groupRepo.AddMember(ctx, txExecutor, member); err != nil {
		return nil, fmt.Errorf("create group: failed to add creator as admin: %w", err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, group.ID); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	created, err := s.groupRepo.GetGroupWithMembers(ctx, txExecutor, group.ID)
	if err != nil {
		return nil, fmt.Errorf("create group: failed to re-fetch group %s: %w", group.ID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create group: failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetGroup retrieves a group with its full membership.
func (s *groupService) GetGroup(ctx context.Context, id string) (*domain.GroupWithMembers, error) {
	group, err := s.groupRepo.GetGroupWithMembers(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get group: failed to get group %s: %w", id, err)
	}
	return group, nil
}

// ListUserGroups retrieves all groups the user belongs to.
func (s *groupService) ListUserGroups(ctx context.Context, userID string) ([]domain.Group, error) {
	groups, err := s.groupRepo.ListGroupsByUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: failed to list groups of user %s: %w", userID, err)
	}
	return groups, nil
}

// UpdateGroup renames a group. Only admins may update.
func (s *groupService) UpdateGroup(ctx context.Context, id, requestedBy, name string, description *string) (*domain.GroupWithMembers, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update group: failed to get group %s: %w", id, err)
	}

	isAdmin, err := s.groupRepo.IsAdmin(ctx, s.dbExecutor, id, requestedBy)
	if err != nil {
		return nil, fmt.Errorf("update group: failed to check admin role: %w", err)
	}
	if !isAdmin {
		return nil, util.ErrNotGroupAdmin
	}

	group.Name = name
	group.Description = description
	if !group.ValidName() {
		return nil, util.ErrInvalidInput
	}

	if err := s.groupRepo.UpdateGroup(ctx, s.dbExecutor, group); err != nil {
		return nil, fmt.Errorf("update group: failed to update group %s: %w", id, err)
	}
	return s.GetGroup(ctx, id)
}

// DeleteGroup removes a group and everything hanging off it. Only admins
// may delete.
func (s *groupService) DeleteGroup(ctx context.Context, id, requestedBy string) error {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, id); err != nil {
		return fmt.Errorf("delete group: failed to get group %s: %w", id, err)
	}

	isAdmin, err := s.groupRepo.IsAdmin(ctx, s.dbExecutor, id, requestedBy)
	if err != nil {
		return fmt.Errorf("delete group: failed to check admin role: %w", err)
	}
	if !isAdmin {
		return util.ErrNotGroupAdmin
	}

	if err := s.groupRepo.DeleteGroup(ctx, s.dbExecutor, id); err != nil {
		return fmt.Errorf("delete group: failed to delete group %s: %w", id, err)
	}
	return nil
}

// AddMember enrolls a user into a group and rebuilds the balances, since
// the equal split now covers one more head. Only admins may add members.
func (s *groupService) AddMember(ctx context.Context, groupID, userID string, role domain.MemberRole, requestedBy string) (*domain.GroupWithMembers, error) {
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("add member: failed to get group %s: %w", groupID, err)
	}
	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID); err != nil {
		return nil, fmt.Errorf("add member: failed to get user %s: %w", userID, err)
	}

	isAdmin, err := s.groupRepo.IsAdmin(ctx, s.dbExecutor, groupID, requestedBy)
	if err != nil {
		return nil, fmt.Errorf("add member: failed to check admin role: %w", err)
	}
	if !isAdmin {
		return nil, util.ErrNotGroupAdmin
	}

	alreadyMember, err := s.groupRepo.IsMember(ctx, s.dbExecutor, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("add member: failed to check membership: %w", err)
	}
	if alreadyMember {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("add member: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("add member: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, groupID); err != nil {
		return nil, fmt.Errorf("add member: failed to lock group %s: %w", groupID, err)
	}
	member := &domain.GroupMember{GroupID: groupID, UserID: userID, Role: role}
	if err := s.groupRepo.AddMember(ctx, txExecutor, member); err != nil {
		return nil, fmt.Errorf("add member: failed to add user %s to group %s: %w", userID, groupID, err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, groupID); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	updated, err := s.groupRepo.GetGroupWithMembers(ctx, txExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("add member: failed to re-fetch group %s: %w", groupID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("add member: failed to commit transaction: %w", err)
	}
	return updated, nil
}

// RemoveMember removes a user from a group. Admins may remove anyone,
// members may remove themselves. The departing user's balance row is
// dropped and the remaining members' balances rebuilt, all in one
// transaction.
func (s *groupService) RemoveMember(ctx context.Context, groupID, userID, requestedBy string) error {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return fmt.Errorf("remove member: failed to get group %s: %w", groupID, err)
	}

	if requestedBy != userID {
		isAdmin, err := s.groupRepo.IsAdmin(ctx, s.dbExecutor, groupID, requestedBy)
		if err != nil {
			return fmt.Errorf("remove member: failed to check admin role: %w", err)
		}
		if !isAdmin {
			return util.ErrNotGroupAdmin
		}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("remove member: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("remove member: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, groupID); err != nil {
		return fmt.Errorf("remove member: failed to lock group %s: %w", groupID, err)
	}
	if err := s.groupRepo.RemoveMember(ctx, txExecutor, groupID, userID); err != nil {
		return fmt.Errorf("remove member: failed to remove user %s from group %s: %w", userID, groupID, err)
	}
	if err := s.balanceRepo.Delete(ctx, txExecutor, userID, groupID); err != nil {
		return fmt.Errorf("remove member: failed to delete balance of user %s in group %s: %w", userID, groupID, err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, groupID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("remove member: failed to commit transaction: %w", err)
	}
	return nil
}
