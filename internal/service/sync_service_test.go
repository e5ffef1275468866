package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/resell_api/internal/config"
	"github.com/GTDGit/resell_api/internal/models"
	"github.com/GTDGit/resell_api/internal/utils"
)

var testAdmin = &models.Actor{UserID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}

type syncFixture struct {
	svc      *SyncService
	factory  *PlatformFactory
	logs     *fakeSyncLogs
	guard    *fakeGuard
	notifier *recordingNotifier
	etsy     *fakeAdapter
}

func newSyncFixture() *syncFixture {
	fx := &syncFixture{
		factory:  NewPlatformFactory(config.PlatformConfig{}),
		logs:     &fakeSyncLogs{},
		guard:    newFakeGuard(),
		notifier: &recordingNotifier{},
		etsy:     newFakeAdapter(models.PlatformEtsy),
	}
	fx.factory.RegisterAdapter(fx.etsy)
	fx.factory.RegisterAdapter(newFakeAdapter(models.PlatformMedusa))
	fx.factory.RegisterAdapter(newFakeAdapter(models.PlatformAukro))
	fx.svc = NewSyncService(fx.factory, fx.logs, fx.guard, fx.notifier)
	return fx
}

func TestSyncPlatform_RequiresAdmin(t *testing.T) {
	fx := newSyncFixture()

	_, err := fx.svc.SyncPlatform(context.Background(), nil, "etsy", models.SyncTypeManual)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	seller := &models.Actor{UserID: "s1", Role: models.RoleSeller}
	_, err = fx.svc.SyncPlatform(context.Background(), seller, "etsy", models.SyncTypeManual)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	assert.Empty(t, fx.logs.created)
}

func TestSyncPlatform_UnknownPlatform(t *testing.T) {
	fx := newSyncFixture()

	_, err := fx.svc.SyncPlatform(context.Background(), testAdmin, "amazon", models.SyncTypeManual)
	assert.ErrorIs(t, err, utils.ErrUnsupportedPlatform)
	assert.Empty(t, fx.logs.created)
}

func TestSyncPlatform_SuccessLifecycle(t *testing.T) {
	fx := newSyncFixture()
	fx.etsy.products = []models.PlatformProduct{{ID: "1"}, {ID: "2"}}
	fx.etsy.orders = []models.PlatformOrder{{ID: "o1"}}

	res, err := fx.svc.SyncPlatform(context.Background(), testAdmin, "Etsy", models.SyncTypeManual)
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.Len(t, fx.logs.created, 1)
	entry := fx.logs.created[0]
	assert.Equal(t, models.PlatformEtsy, entry.Platform)
	assert.Equal(t, models.SyncTypeManual, entry.SyncType)
	assert.Equal(t, models.SyncStatusInProgress, entry.Status)
	require.NotNil(t, entry.TriggeredBy)
	assert.Equal(t, "admin-1", *entry.TriggeredBy)

	done := fx.logs.completed[entry.ID]
	assert.Equal(t, models.SyncStatusSuccess, done.status)
	assert.Equal(t, 3, done.records)
	assert.Nil(t, done.errMsg)

	assert.Same(t, res, fx.guard.last[models.PlatformEtsy])
	require.Len(t, fx.notifier.syncs, 1)
	assert.Empty(t, fx.guard.held)
}

func TestSyncPlatform_FailureIsLogged(t *testing.T) {
	fx := newSyncFixture()
	fx.etsy.listErr = errors.New("rate limited")

	res, err := fx.svc.SyncPlatform(context.Background(), testAdmin, "etsy", models.SyncTypeManual)
	require.NoError(t, err)
	assert.False(t, res.Success)

	done := fx.logs.completed[fx.logs.created[0].ID]
	assert.Equal(t, models.SyncStatusFailure, done.status)
	assert.Equal(t, 0, done.records)
	require.NotNil(t, done.errMsg)
	assert.Equal(t, "rate limited", *done.errMsg)
}

func TestSyncPlatform_AlreadyRunning(t *testing.T) {
	fx := newSyncFixture()
	release, ok, err := fx.guard.Acquire(context.Background(), models.PlatformEtsy)
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	_, err = fx.svc.SyncPlatform(context.Background(), testAdmin, "etsy", models.SyncTypeManual)
	assert.ErrorIs(t, err, utils.ErrSyncInProgress)
	assert.Empty(t, fx.logs.created)
}

func TestSyncPlatform_LockErrorDoesNotBlock(t *testing.T) {
	fx := newSyncFixture()
	fx.guard.acqErr = errors.New("redis down")

	res, err := fx.svc.SyncPlatform(context.Background(), testAdmin, "etsy", models.SyncTypeManual)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestSyncPlatform_LogCreateFailureStillSyncs(t *testing.T) {
	fx := newSyncFixture()
	fx.logs.createErr = errors.New("db down")

	res, err := fx.svc.SyncPlatform(context.Background(), testAdmin, "etsy", models.SyncTypeManual)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, fx.logs.completed)
}

func TestSyncPlatform_WithoutGuard(t *testing.T) {
	fx := newSyncFixture()
	svc := NewSyncService(fx.factory, fx.logs, nil, nil)

	res, err := svc.SyncPlatform(context.Background(), testAdmin, "aukro", models.SyncTypeWebhook)
	require.NoError(t, err)
	assert.True(t, res.Success)

	last, err := svc.LastResult(context.Background(), "aukro")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSyncAll_SystemActor(t *testing.T) {
	fx := newSyncFixture()

	results := fx.svc.SyncAll(context.Background(), SystemActor, models.SyncTypeScheduled)
	require.Len(t, results, 3)
	assert.Equal(t, models.PlatformAukro, results[0].Platform)

	require.Len(t, fx.logs.created, 3)
	for _, l := range fx.logs.created {
		assert.Equal(t, models.SyncTypeScheduled, l.SyncType)
		assert.Nil(t, l.TriggeredBy)
	}
}

func TestSyncAll_SkipsRunningPlatform(t *testing.T) {
	fx := newSyncFixture()
	release, _, _ := fx.guard.Acquire(context.Background(), models.PlatformMedusa)
	defer release()

	results := fx.svc.SyncAll(context.Background(), SystemActor, models.SyncTypeScheduled)
	assert.Len(t, results, 2)
}

func TestSyncService_LastResultAndLogs(t *testing.T) {
	fx := newSyncFixture()
	_, err := fx.svc.SyncPlatform(context.Background(), testAdmin, "etsy", models.SyncTypeManual)
	require.NoError(t, err)

	last, err := fx.svc.LastResult(context.Background(), "ETSY")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, models.PlatformEtsy, last.Platform)

	_, err = fx.svc.LastResult(context.Background(), "nope")
	assert.ErrorIs(t, err, utils.ErrUnsupportedPlatform)

	logs, err := fx.svc.ListLogs(context.Background(), " Etsy ", 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
