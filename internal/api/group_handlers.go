package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/service"
)

func (s *Server) registerGroupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups",
		Summary:     "Create group",
		Description: "Creates a group with the caller as owner and mints an invite key",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups",
		Summary:     "List groups",
		Description: "Returns all groups the authenticated user belongs to",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGroup",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{groupID}",
		Summary:     "Get group",
		Description: "Returns one group; members only",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGroup",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups/{groupID}",
		Summary:     "Delete group",
		Description: "Deletes a group; owner only",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/join",
		Summary:     "Join group",
		Description: "Joins a group using its invite key",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{groupID}/leave",
		Summary:     "Leave group",
		Description: "Removes the authenticated user from the group",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLeaveGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "rotateGroupInvite",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{groupID}/invite/rotate",
		Summary:     "Rotate invite key",
		Description: "Replaces the group invite key; owner only",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRotateInvite)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGroupOverlap",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{groupID}/overlap",
		Summary:     "Get taste overlap",
		Description: "Returns artists and genres shared across member profiles",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGroupOverlap)
}

// === DTOs ===

// CreateGroupRequest names a new group.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100" doc:"Group name"`
}

// CreateGroupInput wraps the create request for Huma.
type CreateGroupInput struct {
	Body CreateGroupRequest
}

// GroupOutput wraps one group for Huma.
type GroupOutput struct {
	Body *domain.Group
}

// GroupListOutput wraps the caller's groups for Huma.
type GroupListOutput struct {
	Body struct {
		Groups []*domain.Group `json:"groups"`
		Total  int             `json:"total"`
	}
}

// GroupInput identifies one group.
type GroupInput struct {
	GroupID string `path:"groupID" doc:"Group ID"`
}

// JoinGroupRequest carries an invite key.
type JoinGroupRequest struct {
	InviteKey string `json:"invite_key" validate:"required,max=100" doc:"Group invite key"`
}

// JoinGroupInput wraps the join request for Huma.
type JoinGroupInput struct {
	Body JoinGroupRequest
}

// GroupOverlapOutput wraps shared-taste results for Huma.
type GroupOverlapOutput struct {
	Body *service.GroupOverlap
}

// === Handlers ===

func (s *Server) handleCreateGroup(ctx context.Context, input *CreateGroupInput) (*GroupOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.services.Group.Create(ctx, userID, service.CreateGroupRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: group}, nil
}

func (s *Server) handleListGroups(ctx context.Context, _ *struct{}) (*GroupListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.services.Group.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &GroupListOutput{}
	out.Body.Groups = groups
	out.Body.Total = len(groups)
	return out, nil
}

func (s *Server) handleGetGroup(ctx context.Context, input *GroupInput) (*GroupOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.services.Group.Get(ctx, userID, input.GroupID)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: group}, nil
}

func (s *Server) handleDeleteGroup(ctx context.Context, input *GroupInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Group.Delete(ctx, userID, input.GroupID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Group deleted"}}, nil
}

func (s *Server) handleJoinGroup(ctx context.Context, input *JoinGroupInput) (*GroupOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.services.Group.Join(ctx, userID, input.Body.InviteKey)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: group}, nil
}

func (s *Server) handleLeaveGroup(ctx context.Context, input *GroupInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Group.Leave(ctx, userID, input.GroupID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Left group"}}, nil
}

func (s *Server) handleRotateInvite(ctx context.Context, input *GroupInput) (*GroupOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.services.Group.RotateInvite(ctx, userID, input.GroupID)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: group}, nil
}

func (s *Server) handleGroupOverlap(ctx context.Context, input *GroupInput) (*GroupOverlapOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	overlap, err := s.services.Group.Overlap(ctx, userID, input.GroupID)
	if err != nil {
		return nil, err
	}

	return &GroupOverlapOutput{Body: overlap}, nil
}
