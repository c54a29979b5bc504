package service

import (
	"context"
	"errors"
	"strings"
	"transferwiki/internal/data"
)

// ProfileRepository defines the content-store operations for user profiles.
type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*data.Profile, error)
	CreateProfile(ctx context.Context, profile *data.Profile) error
	UpdateProfile(ctx context.Context, profile *data.Profile) error
	UpdateRole(ctx context.Context, id string, role data.Role) error
	ListByRole(ctx context.Context, role data.Role) ([]*data.Profile, error)
}

var _ ProfileRepository = (*data.SQLProfileRepository)(nil)

// ProfileService manages user profiles and role assignment. Admin rights
// are provisioned out of band: subjects named in the configuration (or
// promoted via the admin CLI) get the ADMIN role; registration order never
// grants privileges.
type ProfileService struct {
	repo          ProfileRepository
	adminSubjects map[string]bool
}

// NewProfileService creates a new ProfileService. adminSubjects is the
// configured list of identity-provider subjects to provision as admins.
func NewProfileService(repo ProfileRepository, adminSubjects []string) *ProfileService {
	seeded := make(map[string]bool, len(adminSubjects))
	for _, s := range adminSubjects {
		if s = strings.TrimSpace(s); s != "" {
			seeded[s] = true
		}
	}
	return &ProfileService{repo: repo, adminSubjects: seeded}
}

// EnsureProfile loads the profile for an authenticated subject, creating
// it on first login. New profiles default to the USER role unless the
// subject is configured as a seeded admin.
func (s *ProfileService) EnsureProfile(ctx context.Context, subject, displayName string) (*data.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, subject)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, data.ErrNotFound) {
		return nil, transient("failed to load profile", err)
	}

	role := data.RoleUser
	if s.adminSubjects[subject] {
		role = data.RoleAdmin
	}
	if displayName = strings.TrimSpace(displayName); displayName == "" {
		displayName = subject
	}
	profile = &data.Profile{
		ID:          subject,
		DisplayName: displayName,
		Role:        role,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, transient("failed to create profile", err)
	}
	return profile, nil
}

// GetProfile loads a profile by subject.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*data.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "failed to load profile")
	}
	return profile, nil
}

// UpdateOwnProfile lets an actor change their own display name, bio and
// avatar reference. The role field is untouchable here.
func (s *ProfileService) UpdateOwnProfile(ctx context.Context, actor *Actor, displayName, bio, avatarURL string) (*data.Profile, error) {
	if actor == nil {
		return nil, forbidden("authentication required")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, validation("display name must not be empty")
	}

	profile, err := s.repo.GetProfile(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreErr(err, "failed to load profile")
	}
	profile.DisplayName = displayName
	profile.Bio = strings.TrimSpace(bio)
	profile.AvatarURL = strings.TrimSpace(avatarURL)
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, mapStoreErr(err, "failed to update profile")
	}
	return profile, nil
}

// SetRole changes another profile's role. Admin only; the role value must
// be a member of the closed role set.
func (s *ProfileService) SetRole(ctx context.Context, actor *Actor, subject string, role string) error {
	if !CanManageRoles(actor) {
		return forbidden("changing roles requires the admin role")
	}
	if !data.ValidRole(role) {
		return validation("unknown role " + role)
	}
	if err := s.repo.UpdateRole(ctx, subject, data.Role(role)); err != nil {
		return mapStoreErr(err, "failed to update role")
	}
	return nil
}

// ListAdmins lists profiles holding the ADMIN role.
func (s *ProfileService) ListAdmins(ctx context.Context) ([]*data.Profile, error) {
	admins, err := s.repo.ListByRole(ctx, data.RoleAdmin)
	if err != nil {
		return nil, transient("failed to list admins", err)
	}
	return admins, nil
}
