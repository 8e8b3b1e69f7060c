package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/splitsavvy/internal/models"
	"github.com/mmynk/splitsavvy/internal/storage"
	"github.com/mmynk/splitsavvy/pkg/api"
)

// GroupService implements the Connect GroupService: users, groups and
// group membership.
type GroupService struct {
	api.UnimplementedGroupServiceHandler
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// AddUser registers a new user.
func (s *GroupService) AddUser(ctx context.Context, req *connect.Request[api.AddUserRequest]) (*connect.Response[api.AddUserResponse], error) {
	slog.Info("AddUser request received", "name", req.Msg.Name)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	user := &models.User{Name: req.Msg.Name}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("AddUser failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("User created", "user_id", user.ID)

	return connect.NewResponse(&api.AddUserResponse{User: toAPIUser(user)}), nil
}

// ListUsers retrieves all users.
func (s *GroupService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		slog.Error("ListUsers failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}

	slog.Info("ListUsers successful", "count", len(users))

	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// CreateGroup creates a new group. Every member must be an existing user.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	members := make([]string, 0, len(req.Msg.Members))
	seen := make(map[string]bool, len(req.Msg.Members))
	for _, userID := range req.Msg.Members {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		if _, err := s.store.GetUser(ctx, userID); err != nil {
			slog.Error("CreateGroup failed - unknown member", "user_id", userID, "error", err)
			return nil, storeError(err)
		}
		members = append(members, userID)
	}

	group := &models.Group{
		Name:    req.Msg.Name,
		Members: members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// DeleteGroup removes a group along with its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddParticipant adds an existing user to a group. Adding a member twice is a no-op.
func (s *GroupService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUser(ctx, req.Msg.UserID); err != nil {
		slog.Error("AddParticipant failed - unknown user", "user_id", req.Msg.UserID, "error", err)
		return nil, storeError(err)
	}

	if err := s.store.AddGroupMember(ctx, req.Msg.GroupID, req.Msg.UserID); err != nil {
		slog.Error("AddParticipant failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("Failed to fetch updated group", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Participant added", "group_id", group.ID, "members_count", len(group.Members))

	return connect.NewResponse(&api.AddParticipantResponse{Group: toAPIGroup(group)}), nil
}

// RemoveParticipant removes a user from a group. Expenses that reference the
// user are kept, so their share still shows up in the group balances.
func (s *GroupService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("RemoveParticipant failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	if !group.HasMember(req.Msg.UserID) {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("user %s is not a member of group %s", req.Msg.UserID, group.ID))
	}

	if err := s.store.RemoveGroupMember(ctx, group.ID, req.Msg.UserID); err != nil {
		slog.Error("RemoveParticipant failed", "group_id", group.ID, "error", err)
		return nil, storeError(err)
	}

	group, err = s.store.GetGroup(ctx, group.ID)
	if err != nil {
		slog.Error("Failed to fetch updated group", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Participant removed", "group_id", group.ID, "members_count", len(group.Members))

	return connect.NewResponse(&api.RemoveParticipantResponse{Group: toAPIGroup(group)}), nil
}
