package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/resilienceworks/case-study-backend/database"
	"github.com/resilienceworks/case-study-backend/errs"
	"github.com/resilienceworks/case-study-backend/models"
	"github.com/resilienceworks/case-study-backend/storage"
)

func openTestDB(t *testing.T) database.Database {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Outcome{}, &models.FileRecord{}))

	return database.New(db)
}

func newTestStore(t *testing.T) *storage.DiskStore {
	t.Helper()

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return store
}

// failingSaveStore fails Save for the named files and delegates otherwise.
type failingSaveStore struct {
	storage.BlobStore
	failFor map[string]bool
}

func (s failingSaveStore) Save(name string, content io.Reader) (string, error) {
	if s.failFor[name] {
		return "", errors.New("disk full")
	}
	return s.BlobStore.Save(name, content)
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestUploadOneToExistingProject(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t)
	uploader := NewUploader(db, store)

	project := models.Project{Title: "Flood Response Initiative"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	result, err := uploader.UploadOne(context.Background(), ExistingProject{ID: project.ID}, Blob{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Content:     strings.NewReader("findings"),
	})
	require.NoError(t, err)
	assert.Equal(t, project.ID, result.ProjectID)
	assert.NotZero(t, result.FileID)

	record, err := db.FileRepo().FindByID(result.FileID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "report.pdf", record.Filename)
	assert.Equal(t, "application/pdf", record.Filetype)

	content, err := os.ReadFile(record.Filepath)
	require.NoError(t, err)
	assert.Equal(t, "findings", string(content))
}

func TestUploadOneCreatesImplicitProject(t *testing.T) {
	db := openTestDB(t)
	uploader := NewUploader(db, newTestStore(t))

	target, err := ResolveTarget(nil, "Ad-hoc upload", "Files without a home")
	require.NoError(t, err)

	result, err := uploader.UploadOne(context.Background(), target, Blob{
		Filename: "notes.txt",
		Content:  strings.NewReader("x"),
	})
	require.NoError(t, err)

	project, err := db.ProjectRepo().FindByID(result.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, "Ad-hoc upload", project.Title)
	assert.Equal(t, "unspecified", project.Location)
}

func TestUploadOneRejectsUnsafeFilenameBeforeWriting(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t)
	uploader := NewUploader(db, store)

	project := models.Project{Title: "p"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	_, err := uploader.UploadOne(context.Background(), ExistingProject{ID: project.ID}, Blob{
		Filename: "../escape.txt",
		Content:  strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.True(t, errs.IsInvalidFilenameError(err))

	assert.Empty(t, dirEntries(t, store.Dir()))

	records, err := db.FileRepo().FindByProject(project.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUploadOneRemovesBlobWhenProjectMissing(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t)
	uploader := NewUploader(db, store)

	_, err := uploader.UploadOne(context.Background(), ExistingProject{ID: 9999}, Blob{
		Filename: "orphan.txt",
		Content:  strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	// The blob was written first, then cleaned up when the record insert
	// never happened.
	assert.Empty(t, dirEntries(t, store.Dir()))
}

func TestResolveTargetRequiresIDOrTitleAndDescription(t *testing.T) {
	_, err := ResolveTarget(nil, "", "")
	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))

	_, err = ResolveTarget(nil, "title only", "")
	require.Error(t, err)

	id := uint(3)
	target, err := ResolveTarget(&id, "", "")
	require.NoError(t, err)
	assert.Equal(t, ExistingProject{ID: 3}, target)
}

func TestUploadManyBestEffort(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t)
	uploader := NewUploader(db, failingSaveStore{BlobStore: store, failFor: map[string]bool{"two.txt": true}})

	project := models.Project{Title: "batch"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	result, err := uploader.UploadMany(context.Background(), ExistingProject{ID: project.ID}, []Blob{
		{Filename: "one.txt", Content: strings.NewReader("1")},
		{Filename: "two.txt", Content: strings.NewReader("2")},
		{Filename: "three.txt", Content: strings.NewReader("3")},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Saved)
	assert.Len(t, result.FileIDs, 2)

	records, err := db.FileRepo().FindByProject(project.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	names := []string{records[0].Filename, records[1].Filename}
	assert.ElementsMatch(t, []string{"one.txt", "three.txt"}, names)
}

func TestUploadManySkipsUnsafeNames(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t)
	uploader := NewUploader(db, store)

	project := models.Project{Title: "batch"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	result, err := uploader.UploadMany(context.Background(), ExistingProject{ID: project.ID}, []Blob{
		{Filename: "../bad.txt", Content: strings.NewReader("x")},
		{Filename: "good.txt", Content: strings.NewReader("y")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Saved)
	assert.Len(t, dirEntries(t, store.Dir()), 1)
}

func TestUploadManyCreatesSingleImplicitProject(t *testing.T) {
	db := openTestDB(t)
	uploader := NewUploader(db, newTestStore(t))

	result, err := uploader.UploadMany(context.Background(), NewProject{Title: "bulk", Description: "d"}, []Blob{
		{Filename: "a.txt", Content: strings.NewReader("a")},
		{Filename: "b.txt", Content: strings.NewReader("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)

	projects, err := db.ProjectRepo().FindAll()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "multiple_files", projects[0].Location)
}

func TestUploadManyFailsFastOnMissingProject(t *testing.T) {
	db := openTestDB(t)
	store := newTestStore(t)
	uploader := NewUploader(db, store)

	_, err := uploader.UploadMany(context.Background(), ExistingProject{ID: 404}, []Blob{
		{Filename: "a.txt", Content: strings.NewReader("a")},
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	// No blob is written before the project is known to exist.
	assert.Empty(t, dirEntries(t, store.Dir()))
}

func TestUploadManyRejectsEmptyBatch(t *testing.T) {
	db := openTestDB(t)
	uploader := NewUploader(db, newTestStore(t))

	_, err := uploader.UploadMany(context.Background(), NewProject{Title: "t", Description: "d"}, nil)
	require.Error(t, err)
	assert.True(t, errs.IsBadRequest(err))
}
