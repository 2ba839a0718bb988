package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/events"
	"github.com/phrazzld/flashlists/internal/generation"
	"github.com/phrazzld/flashlists/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *libraryFixture) folder(t *testing.T, owner uuid.UUID) *domain.Folder {
	t.Helper()
	folder, err := f.folders.Create(context.Background(), owner, "Folder")
	require.NoError(t, err)
	return folder
}

func TestListService_CreateAndGet(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	folder := f.folder(t, owner)

	list, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "", []string{"1. uno", "dos", "tres"}, []string{"one", "2. two"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultListName, list.Name)
	assert.Equal(t, []string{"uno", "dos"}, list.Front)
	assert.Equal(t, []string{"one", "two"}, list.Back)

	got, err := f.lists.Get(ctx, owner, list.ID)
	require.NoError(t, err)
	assert.Equal(t, list.Front, got.Front)

	empty, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "blank", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Cards())

	all, err := f.lists.ListInFolder(ctx, owner, folder.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListService_Ownership(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()
	folder := f.folder(t, owner)
	list, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "mine", []string{"a"}, []string{"b"})
	require.NoError(t, err)

	_, err = f.lists.CreateInFolder(ctx, intruder, folder.ID, "sneaky", nil, nil)
	assert.ErrorIs(t, err, ErrNotOwned)
	_, err = f.lists.ListInFolder(ctx, intruder, folder.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
	_, err = f.lists.Get(ctx, intruder, list.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
	_, err = f.lists.Rename(ctx, intruder, list.ID, "x")
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.ErrorIs(t, f.lists.Delete(ctx, intruder, list.ID), ErrNotOwned)
	_, err = f.lists.Export(ctx, intruder, list.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	_, err = f.lists.CreateInFolder(ctx, owner, uuid.New(), "nowhere", nil, nil)
	assert.ErrorIs(t, err, store.ErrFolderNotFound)
}

func TestListService_UpdateAndRename(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	folder := f.folder(t, owner)
	list, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "verbs", []string{"a", "b"}, []string{"x", "y"})
	require.NoError(t, err)

	renamed, err := f.lists.Rename(ctx, owner, list.ID, "nouns")
	require.NoError(t, err)
	assert.Equal(t, "nouns", renamed.Name)
	assert.Equal(t, []string{"a", "b"}, renamed.Front, "rename keeps content")

	updated, err := f.lists.Update(ctx, owner, list.ID, UpdateListInput{
		Name:  "nouns",
		Front: []string{"c"},
		Back:  []string{"z", "extra"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, updated.Front)
	assert.Equal(t, []string{"z"}, updated.Back)

	require.NoError(t, f.lists.Delete(ctx, owner, list.ID))
	_, err = f.lists.Get(ctx, owner, list.ID)
	assert.ErrorIs(t, err, store.ErrListNotFound)

	assert.Equal(t, []string{
		events.ReasonFolderCreated,
		events.ReasonListCreated,
		events.ReasonListUpdated,
		events.ReasonListUpdated,
		events.ReasonListDeleted,
	}, f.emitter.reasons())
	last := f.emitter.events[len(f.emitter.events)-1]
	assert.Equal(t, folder.ID, last.FolderID)
	assert.Equal(t, list.ID, last.ListID)
}

func TestListService_SaveFromText(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	folder := f.folder(t, owner)

	created, err := f.lists.SaveFromText(ctx, owner, SaveTextInput{
		FolderID:  folder.ID,
		Name:      "capitals",
		FrontText: "1. Italy\n\n2. France\n3. Spain",
		BackText:  "Rome\nParis",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Italy", "France"}, created.List.Front)
	assert.Equal(t, []string{"Rome", "Paris"}, created.List.Back)
	assert.Equal(t, generation.DiagnosticCountMismatch, created.Diagnostic.Kind)
	assert.Equal(t, 3, created.Diagnostic.FrontCount)

	saved, err := f.lists.SaveFromText(ctx, owner, SaveTextInput{
		ListID:    created.List.ID,
		Name:      "capitals",
		FrontText: "Italy\nFrance\nSpain",
		BackText:  "Rome\nParis\nMadrid",
	})
	require.NoError(t, err)
	assert.True(t, saved.Diagnostic.IsZero())
	assert.Equal(t, created.List.ID, saved.List.ID)
	assert.Len(t, saved.List.Cards(), 3)
}

func TestListService_ExportImport(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	folder := f.folder(t, owner)
	list, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "verbs", []string{"hablar"}, []string{"to speak"})
	require.NoError(t, err)

	exported, err := f.lists.Export(ctx, owner, list.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListExport{Name: "verbs", Front: []string{"hablar"}, Back: []string{"to speak"}}, exported)

	other := f.folder(t, owner)
	imported, err := f.lists.Import(ctx, owner, other.ID, exported)
	require.NoError(t, err)
	assert.NotEqual(t, list.ID, imported.ID)
	assert.Equal(t, other.ID, imported.FolderID)
	assert.Equal(t, exported.Front, imported.Front)

	_, err = f.lists.Import(ctx, owner, other.ID, domain.ListExport{Name: "broken", Front: []string{"a"}})
	assert.ErrorIs(t, err, domain.ErrMissingSide)

	assert.Equal(t, events.ReasonListImported, f.emitter.reasons()[len(f.emitter.events)-1])
}

func TestListService_RejectsBlankEntries(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	folder := f.folder(t, owner)

	t.Run("create", func(t *testing.T) {
		_, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "gaps", []string{"a", "2.", "c"}, []string{"x", "y", "z"})
		assert.ErrorIs(t, err, domain.ErrBlankCardSide)
	})

	t.Run("import", func(t *testing.T) {
		_, err := f.lists.Import(ctx, owner, folder.ID, domain.ListExport{
			Name:  "gaps",
			Front: []string{"a", "", "c"},
			Back:  []string{"x", "y", "z"},
		})
		require.ErrorIs(t, err, domain.ErrBlankCardSide)

		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "front", ve.Field)
	})

	t.Run("update", func(t *testing.T) {
		list, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "full", []string{"a", "b"}, []string{"x", "y"})
		require.NoError(t, err)

		_, err = f.lists.Update(ctx, owner, list.ID, UpdateListInput{
			Name:  "full",
			Front: []string{"a", "b"},
			Back:  []string{"x", "   "},
		})
		assert.ErrorIs(t, err, domain.ErrBlankCardSide)

		got, err := f.lists.Get(ctx, owner, list.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, got.Back)
	})

	all, err := f.lists.ListInFolder(ctx, owner, folder.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1, "only the valid list was stored")
}

func TestListService_UpdateRequiresBothSides(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	folder := f.folder(t, owner)
	list, err := f.lists.CreateInFolder(ctx, owner, folder.ID, "verbs", []string{"a"}, []string{"x"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   UpdateListInput
	}{
		{name: "front only", in: UpdateListInput{Name: "renamed", Front: []string{"b"}}},
		{name: "back only", in: UpdateListInput{Name: "renamed", Back: []string{"y"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.lists.Update(ctx, owner, list.ID, tc.in)
			require.ErrorIs(t, err, domain.ErrMissingSide)

			got, err := f.lists.Get(ctx, owner, list.ID)
			require.NoError(t, err)
			assert.Equal(t, "verbs", got.Name)
			assert.Equal(t, []string{"a"}, got.Front)
		})
	}
}

func TestListService_ImportKeepsLeadingNumbers(t *testing.T) {
	f := newLibraryFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	folder := f.folder(t, owner)

	imported, err := f.lists.Import(ctx, owner, folder.ID, domain.ListExport{
		Name:  "history",
		Front: []string{" 1999. was a year "},
		Back:  []string{"2. the second"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1999. was a year"}, imported.Front)
	assert.Equal(t, []string{"2. the second"}, imported.Back)

	exported, err := f.lists.Export(ctx, owner, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, imported.Front, exported.Front)
}
