package users

import (
	"context"

	"github.com/pkg/errors"

	"github.com/anjing/storeauth/api"
	"github.com/anjing/storeauth/authmodel"
)

// Service is the typed wrapper over the backend's user endpoints. It
// holds no state of its own; authorization rides on the transport's
// token source.
type Service struct {
	client api.Client
}

func NewService(client api.Client) *Service {
	return &Service{client: client}
}

// Register creates an account and returns the new user number.
func (s *Service) Register(ctx context.Context, params RegisterParams) (string, error) {
	var userNo string
	if err := s.client.Post(ctx, api.PathRegister, params, &userNo); err != nil {
		return "", errors.Wrap(err, "[Service.Register]")
	}
	return userNo, nil
}

// UpdatePassword changes the current account's password.
func (s *Service) UpdatePassword(ctx context.Context, params UpdatePasswordParams) error {
	if err := s.client.Put(ctx, api.PathUserPassword, params, nil); err != nil {
		return errors.Wrap(err, "[Service.UpdatePassword]")
	}
	return nil
}

// Basic fetches the editable profile.
func (s *Service) Basic(ctx context.Context) (*Basic, error) {
	var basic Basic
	if err := s.client.Get(ctx, api.PathUserBasic, &basic); err != nil {
		return nil, errors.Wrap(err, "[Service.Basic]")
	}
	return &basic, nil
}

// UpdateBasic applies a partial profile update.
func (s *Service) UpdateBasic(ctx context.Context, update BasicUpdate) error {
	if err := s.client.Put(ctx, api.PathUserBasic, update, nil); err != nil {
		return errors.Wrap(err, "[Service.UpdateBasic]")
	}
	return nil
}

// AvatarUploadSign returns the pre-signed upload form for an avatar
// file.
func (s *Service) AvatarUploadSign(ctx context.Context, originFileName string) (string, error) {
	var sign string
	params := AvatarUploadParams{OriginFileName: originFileName}
	if err := s.client.Post(ctx, api.PathUserAvatar, params, &sign); err != nil {
		return "", errors.Wrap(err, "[Service.AvatarUploadSign]")
	}
	return sign, nil
}

// TenantMembers lists the accounts in the session's tenant.
func (s *Service) TenantMembers(ctx context.Context) ([]TenantMember, error) {
	var members []TenantMember
	if err := s.client.Get(ctx, api.PathTenantList, &members); err != nil {
		return nil, errors.Wrap(err, "[Service.TenantMembers]")
	}
	return members, nil
}

// Info fetches the authenticated user's profile and grants.
func (s *Service) Info(ctx context.Context) (*authmodel.UserInfo, error) {
	var info authmodel.UserInfo
	if err := s.client.Get(ctx, api.PathCurrentUser, &info); err != nil {
		return nil, errors.Wrap(err, "[Service.Info]")
	}
	return &info, nil
}
