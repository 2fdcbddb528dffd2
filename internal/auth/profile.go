package auth

import (
	"context"
	"net/http"
	"strings"

	"dtmapi/internal/apperror"
	"dtmapi/internal/models"
)

// UserInfo is the profile reply.
type UserInfo struct {
	Successful  bool     `json:"successful"`
	ID          string   `json:"id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	IsVerify    bool     `json:"isVerify"`
	KYC         []string `json:"kyc"`
}

// PlatformUser is the projection handed to partner channels.
type PlatformUser struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	IsVerify    bool   `json:"isVerify"`
}

// Profile returns the profile of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*UserInfo, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, oid)
	if isNotFound(err) {
		return nil, apperror.Single(http.StatusNotFound, "invalid/user", "The user was not found")
	}
	if err != nil {
		return nil, err
	}
	kyc := user.KYC
	if kyc == nil {
		kyc = []string{}
	}
	return &UserInfo{
		Successful:  true,
		ID:          user.ID.Hex(),
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		IsVerify:    user.IsVerify,
		KYC:         kyc,
	}, nil
}

// AddKYCChannel records channel on the user and grants MEMBER.
func (s *Service) AddKYCChannel(ctx context.Context, userID, channel string) (bool, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return false, err
	}
	if err := s.users.AddKYCChannel(ctx, oid, channel); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// splitType splits "MEMBER/<channel>" into role and channel.
func splitType(t string) (models.Role, string) {
	role, channel, _ := strings.Cut(t, "/")
	return models.Role(role), channel
}

// listableRoles are the roles partners may list.
var listableRoles = map[models.Role]bool{
	models.RoleUser:   true,
	models.RoleMember: true,
}

// PlatformUsers groups users by the requested types. A type is USER, or
// MEMBER/<channel> for members registered to that KYC channel. Other roles
// yield an empty group. Users that appear under any other type are dropped
// from the USER group.
func (s *Service) PlatformUsers(ctx context.Context, types []string) (map[string][]PlatformUser, error) {
	seenRole := make(map[models.Role]bool)
	var roles []models.Role
	for _, t := range types {
		role, _ := splitType(t)
		if !listableRoles[role] || seenRole[role] {
			continue
		}
		seenRole[role] = true
		roles = append(roles, role)
	}

	var users []*models.User
	if len(roles) > 0 {
		var err error
		users, err = s.users.ListByRoles(ctx, roles)
		if err != nil {
			return nil, err
		}
	}

	res := make(map[string][]PlatformUser, len(types))
	for _, t := range types {
		role, channel := splitType(t)
		list := []PlatformUser{}
		for _, u := range users {
			if !listableRoles[role] || !u.HasRole(role) {
				continue
			}
			if role == models.RoleMember && channel != "" && !u.HasKYC(channel) {
				continue
			}
			list = append(list, toPlatformUser(u))
		}
		res[t] = list
	}

	userList, ok := res[string(models.RoleUser)]
	if !ok {
		return res, nil
	}
	taken := make(map[string]bool)
	for t, list := range res {
		if t == string(models.RoleUser) {
			continue
		}
		for _, u := range list {
			taken[u.ID] = true
		}
	}
	filtered := make([]PlatformUser, 0, len(userList))
	for _, u := range userList {
		if !taken[u.ID] {
			filtered = append(filtered, u)
		}
	}
	res[string(models.RoleUser)] = filtered
	return res, nil
}

func toPlatformUser(u *models.User) PlatformUser {
	return PlatformUser{
		ID:          u.ID.Hex(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		IsVerify:    u.IsVerify,
	}
}
