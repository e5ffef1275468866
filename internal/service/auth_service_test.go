package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

type fakeProfiles struct {
	byEmail map[string]*models.Profile
	err     error
}

func (f *fakeProfiles) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[strings.ToLower(email)], nil
}

func (f *fakeProfiles) Create(_ context.Context, p *models.Profile) error {
	if f.byEmail == nil {
		f.byEmail = map[string]*models.Profile{}
	}
	p.ID = "profile-" + p.Email
	f.byEmail[strings.ToLower(p.Email)] = p
	return nil
}

func seededProfiles(t *testing.T) *fakeProfiles {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeProfiles{byEmail: map[string]*models.Profile{
		"admin@example.com":  {ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin, PasswordHash: string(hash)},
		"nopass@example.com": {ID: "x", Email: "nopass@example.com", Role: models.RoleSeller},
	}}
}

func TestAuthService_Login(t *testing.T) {
	utils.SetJWTConfig("test-secret", time.Hour)
	svc := NewAuthService(seededProfiles(t))

	token, profile, err := svc.Login(context.Background(), " admin@example.com ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", profile.ID)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestAuthService_LoginRejects(t *testing.T) {
	utils.SetJWTConfig("test-secret", time.Hour)
	svc := NewAuthService(seededProfiles(t))
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "ghost@example.com", "s3cret")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nopass@example.com", "")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	broken := NewAuthService(&fakeProfiles{err: errStore})
	_, _, err = broken.Login(ctx, "admin@example.com", "s3cret")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestAuthService_EnsureProfile(t *testing.T) {
	store := &fakeProfiles{}
	svc := NewAuthService(store)
	ctx := context.Background()

	p, err := svc.EnsureProfile(ctx, "root@example.com", "pw", "Root", models.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, p.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("pw")))

	again, err := svc.EnsureProfile(ctx, "root@example.com", "other", "Root", models.RoleAdmin)
	require.NoError(t, err)
	assert.Same(t, p, again)

	_, err = svc.EnsureProfile(ctx, "x@example.com", "pw", "X", models.Role("owner"))
	assert.Error(t, err)
}
