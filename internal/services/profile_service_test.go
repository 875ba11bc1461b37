package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamamaps/backend/internal/models"
)

func TestLocalProfileService_AddPoints(t *testing.T) {
	svc, err := NewLocalProfileService(t.TempDir())
	require.NoError(t, err)

	// AddPoints creates the profile if needed.
	prof, err := svc.AddPoints(context.Background(), "officer-1", 10, true)
	require.NoError(t, err)
	require.Equal(t, 10, prof.Points)
	require.Equal(t, 1, prof.ReportsCount)

	prof, err = svc.AddPoints(context.Background(), "officer-1", 5, false)
	require.NoError(t, err)
	require.Equal(t, 15, prof.Points)
	require.Equal(t, 1, prof.ReportsCount)
}

func TestLocalProfileService_UpsertKeepsCounters(t *testing.T) {
	svc, err := NewLocalProfileService(t.TempDir())
	require.NoError(t, err)

	_, err = svc.AddPoints(context.Background(), "officer-1", 25, true)
	require.NoError(t, err)

	name := "Ravi K"
	prof, err := svc.Upsert(context.Background(), "officer-1", "ravi@example.com", &models.UpsertProfileRequest{
		DisplayName: &name,
	})
	require.NoError(t, err)
	require.Equal(t, "Ravi K", prof.DisplayName)
	require.Equal(t, 25, prof.Points)
	require.Equal(t, 1, prof.ReportsCount)
}

func TestLocalProfileService_Delete(t *testing.T) {
	svc, err := NewLocalProfileService(t.TempDir())
	require.NoError(t, err)

	avatar := "https://images.example.com/avatar.jpg"
	_, err = svc.Upsert(context.Background(), "officer-1", "", &models.UpsertProfileRequest{AvatarURL: &avatar})
	require.NoError(t, err)

	got, err := svc.Delete(context.Background(), "officer-1")
	require.NoError(t, err)
	require.Equal(t, avatar, got)

	// Deleting an absent profile is a no-op.
	got, err = svc.Delete(context.Background(), "officer-1")
	require.NoError(t, err)
	require.Empty(t, got)

	// The identity starts over zeroed.
	prof, err := svc.GetOrCreate(context.Background(), "officer-1", "ravi@example.com")
	require.NoError(t, err)
	require.Zero(t, prof.Points)
	require.Empty(t, prof.AvatarURL)
}
