package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/events"
	"github.com/phrazzld/flashlists/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type libraryFixture struct {
	folders FolderService
	lists   ListService
	fStore  *memFolderStore
	lStore  *memListStore
	emitter *recordingEmitter
	tx      *fakeTx
}

func newLibraryFixture(t *testing.T) *libraryFixture {
	t.Helper()
	f := &libraryFixture{
		lStore:  newMemListStore(),
		emitter: &recordingEmitter{},
		tx:      &fakeTx{},
	}
	f.fStore = newMemFolderStore(f.lStore)

	var err error
	f.folders, err = NewFolderService(f.fStore, f.tx, f.emitter, nil)
	require.NoError(t, err)
	f.lists, err = NewListService(f.lStore, f.fStore, f.tx, f.emitter, nil)
	require.NoError(t, err)
	return f
}

func TestNewFolderServiceRequiresDependencies(t *testing.T) {
	_, err := NewFolderService(nil, &fakeTx{}, events.NoopEmitter{}, nil)
	assert.Error(t, err)
}

func TestFolderService_Lifecycle(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	folder, err := f.folders.Create(ctx, owner, "  Spanish ")
	require.NoError(t, err)
	assert.Equal(t, "Spanish", folder.Name)

	_, err = f.folders.Create(ctx, owner, "French")
	require.NoError(t, err)

	all, err := f.folders.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	renamed, err := f.folders.Rename(ctx, owner, folder.ID, "Español")
	require.NoError(t, err)
	assert.Equal(t, "Español", renamed.Name)

	stored, err := f.fStore.GetByID(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Español", stored.Name)

	require.NoError(t, f.folders.Delete(ctx, owner, folder.ID))
	_, err = f.fStore.GetByID(ctx, folder.ID)
	assert.ErrorIs(t, err, store.ErrFolderNotFound)

	assert.Equal(t, []string{
		events.ReasonFolderCreated,
		events.ReasonFolderCreated,
		events.ReasonFolderRenamed,
		events.ReasonFolderDeleted,
	}, f.emitter.reasons())
	for _, e := range f.emitter.events {
		assert.Equal(t, owner, e.UserID)
	}
}

func TestFolderService_Ownership(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	folder, err := f.folders.Create(ctx, owner, "Private")
	require.NoError(t, err)
	emitted := len(f.emitter.events)

	_, err = f.folders.Rename(ctx, intruder, folder.ID, "Mine now")
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.ErrorIs(t, f.folders.Delete(ctx, intruder, folder.ID), ErrNotOwned)

	others, err := f.folders.List(ctx, intruder)
	require.NoError(t, err)
	assert.Empty(t, others)

	assert.Len(t, f.emitter.events, emitted, "failed mutations emit nothing")
}

func TestFolderService_Validation(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := f.folders.Create(ctx, owner, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyFolderName)

	folder, err := f.folders.Create(ctx, owner, "Ok")
	require.NoError(t, err)
	_, err = f.folders.Rename(ctx, owner, folder.ID, "")
	assert.ErrorIs(t, err, domain.ErrEmptyFolderName)

	_, err = f.folders.Rename(ctx, owner, uuid.New(), "Missing")
	assert.ErrorIs(t, err, store.ErrFolderNotFound)
}

func TestFolderService_EmitFailureDoesNotFailRequest(t *testing.T) {
	f := newLibraryFixture(t)
	f.emitter.err = errors.New("hub down")

	_, err := f.folders.Create(context.Background(), uuid.New(), "Still works")
	assert.NoError(t, err)
}

func TestFolderService_DeleteCascadesLists(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()

	folder, err := f.folders.Create(ctx, owner, "Capitals")
	require.NoError(t, err)
	list, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "Europe", []string{"Italy"}, []string{"Rome"})
	require.NoError(t, err)

	require.NoError(t, f.folders.Delete(ctx, owner, folder.ID))

	_, err = f.lists.Get(ctx, owner, list.ID)
	assert.ErrorIs(t, err, store.ErrListNotFound)
}
