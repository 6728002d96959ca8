package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/resilienceworks/case-study-backend/models"
)

func openTestDB(t *testing.T) Database {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Outcome{}, &models.FileRecord{}))

	return New(db)
}

func TestProjectRepoFindAllNewestFirst(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := models.Project{Title: "older", CreatedAt: base}
	newer := models.Project{Title: "newer", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, db.ProjectRepo().Add(&older))
	require.NoError(t, db.ProjectRepo().Add(&newer))

	projects, err := db.ProjectRepo().FindAll()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "newer", projects[0].Title)
	assert.Equal(t, "older", projects[1].Title)
}

func TestProjectRepoFindAllNormalizesHazardTypes(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.ProjectRepo().Add(&models.Project{Title: "bare"}))

	projects, err := db.ProjectRepo().FindAll()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.NotNil(t, projects[0].HazardTypes)
	assert.Empty(t, projects[0].HazardTypes)
}

func TestProjectRepoFindByIDMissing(t *testing.T) {
	db := openTestDB(t)

	project, err := db.ProjectRepo().FindByID(123)
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestProjectRepoDeleteReportsExistence(t *testing.T) {
	db := openTestDB(t)

	project := models.Project{Title: "p"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	existed, err := db.ProjectRepo().Delete(project.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = db.ProjectRepo().Delete(project.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestOutcomeRepoRejectsUnknownProject(t *testing.T) {
	db := openTestDB(t)

	err := db.OutcomeRepo().Add(&models.Outcome{ProjectID: 999})
	assert.Error(t, err)
}

func TestOutcomeRepoFindLatestByProject(t *testing.T) {
	db := openTestDB(t)

	project := models.Project{Title: "p"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first := models.Outcome{ProjectID: project.ID, OverallSuccess: false, CreatedAt: base}
	second := models.Outcome{ProjectID: project.ID, OverallSuccess: true, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, db.OutcomeRepo().Add(&first))
	require.NoError(t, db.OutcomeRepo().Add(&second))

	latest, err := db.OutcomeRepo().FindLatestByProject(project.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.True(t, latest.OverallSuccess)
}

func TestOutcomeRepoFindLatestByProjectNone(t *testing.T) {
	db := openTestDB(t)

	project := models.Project{Title: "p"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	latest, err := db.OutcomeRepo().FindLatestByProject(project.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestOutcomeRepoSaveRoundTrip(t *testing.T) {
	db := openTestDB(t)

	project := models.Project{Title: "p"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	outcome := models.Outcome{
		ProjectID:      project.ID,
		SuccessMetrics: datatypes.JSONMap{"homes_protected": float64(40)},
		Challenges:     datatypes.NewJSONSlice([]string{"funding"}),
	}
	require.NoError(t, db.OutcomeRepo().Add(&outcome))

	outcome.OverallSuccess = true
	require.NoError(t, db.OutcomeRepo().Save(&outcome))

	loaded, err := db.OutcomeRepo().FindByID(outcome.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.OverallSuccess)
	assert.Equal(t, datatypes.NewJSONSlice([]string{"funding"}), loaded.Challenges)
}

func TestFileRepoFindByProjectNewestFirst(t *testing.T) {
	db := openTestDB(t)

	project := models.Project{Title: "p"}
	require.NoError(t, db.ProjectRepo().Add(&project))

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	old := models.FileRecord{ProjectID: project.ID, Filename: "old.txt", Filepath: "/x/old.txt", UploadedAt: base}
	recent := models.FileRecord{ProjectID: project.ID, Filename: "recent.txt", Filepath: "/x/recent.txt", UploadedAt: base.Add(time.Minute)}
	require.NoError(t, db.FileRepo().Add(&old))
	require.NoError(t, db.FileRepo().Add(&recent))

	records, err := db.FileRepo().FindByProject(project.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "recent.txt", records[0].Filename)
}

func TestFileRepoDeleteByProject(t *testing.T) {
	db := openTestDB(t)

	keep := models.Project{Title: "keep"}
	drop := models.Project{Title: "drop"}
	require.NoError(t, db.ProjectRepo().Add(&keep))
	require.NoError(t, db.ProjectRepo().Add(&drop))

	require.NoError(t, db.FileRepo().Add(&models.FileRecord{ProjectID: keep.ID, Filename: "k.txt", Filepath: "/x/k"}))
	require.NoError(t, db.FileRepo().Add(&models.FileRecord{ProjectID: drop.ID, Filename: "d.txt", Filepath: "/x/d"}))

	require.NoError(t, db.FileRepo().DeleteByProject(drop.ID))

	kept, err := db.FileRepo().FindByProject(keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	dropped, err := db.FileRepo().FindByProject(drop.ID)
	require.NoError(t, err)
	assert.Empty(t, dropped)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	sentinel := errors.New("abort")
	err := db.Transaction(context.Background(), func(tx Database) error {
		if err := tx.ProjectRepo().Add(&models.Project{Title: "phantom"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	projects, err := db.ProjectRepo().FindAll()
	require.NoError(t, err)
	assert.Empty(t, projects)
}
