package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Report{}, &entity.StatusUpdate{}, &entity.ReportComment{},
		&entity.CollectionTask{},
	))
	return db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role string) *entity.User {
	t.Helper()
	userSeq++
	u := &entity.User{
		Email:     fmt.Sprintf("%s%d@test.local", role, userSeq),
		Password:  "not-a-real-hash",
		FirstName: "Test",
		LastName:  role,
		Role:      role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedReport(t *testing.T, db *gorm.DB, reporterID uint, status string, assigneeID *uint) *entity.Report {
	t.Helper()
	r := &entity.Report{
		Title:        "overflowing bin",
		WasteType:    entity.WasteMixed,
		Status:       status,
		ReportedByID: reporterID,
		AssignedToID: assigneeID,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

type publishedEvent struct {
	Group string
	Type  string
}

// fakeBroadcaster records every publish for assertions.
type fakeBroadcaster struct {
	events []publishedEvent
}

func (f *fakeBroadcaster) Publish(group string, message map[string]any) {
	typ, _ := message["type"].(string)
	f.events = append(f.events, publishedEvent{Group: group, Type: typ})
}

type testEnv struct {
	db          *gorm.DB
	broadcaster *fakeBroadcaster
	users       *repository.UserRepository
	reports     *repository.ReportRepository
	tasks       *repository.TaskRepository
	fanout      *FanoutService
	transition  *TransitionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	reports := repository.NewReportRepository(db)
	tasks := repository.NewTaskRepository(db)
	broadcaster := &fakeBroadcaster{}
	fanout := NewFanoutService(broadcaster, nil, users, zerolog.Nop())
	return &testEnv{
		db:          db,
		broadcaster: broadcaster,
		users:       users,
		reports:     reports,
		tasks:       tasks,
		fanout:      fanout,
		transition:  NewTransitionService(db, reports, tasks, users, fanout),
	}
}
