package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/workstream-api/internal/database"
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/repository"
	"github.com/yukikurage/workstream-api/internal/utils"
	"github.com/yukikurage/workstream-api/internal/views"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NotificationServiceTestSuite runs the service against in-memory SQLite
type NotificationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *NotificationService

	manager views.Viewer
	aniket  views.Viewer
	magesh  views.Viewer
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.AutoMigrate(database.Models()...))

	suite.service = NewNotificationService(repository.NewNotificationRepository(suite.db))
	suite.service.now = func() time.Time { return testNow }

	suite.manager = views.Viewer{ID: "M1", Name: "Alex Rivera", Manager: true}
	suite.aniket = views.Viewer{ID: "S1", Name: "Aniket Baral"}
	suite.magesh = views.Viewer{ID: "S2", Name: "Magesh"}

	notices := []models.Notification{
		{ID: "N1", EmployeeID: "S1", TaskID: "T1", Message: "first", CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "N2", EmployeeID: "S1", TaskID: "T2", Message: "second", CreatedAt: testNow.Add(-time.Hour)},
		{ID: "N3", EmployeeID: "S2", TaskID: "T3", Message: "other", CreatedAt: testNow.Add(-time.Hour)},
	}
	suite.Require().NoError(repository.NewWorkstreamRepository(suite.db).Apply(repository.Changeset{Notifications: notices}))
}

func (suite *NotificationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *NotificationServiceTestSuite) page() utils.PaginationParams {
	return utils.NewPaginationParams(1, 20)
}

func (suite *NotificationServiceTestSuite) TestList_EmployeeSeesOwn() {
	page, err := suite.service.List(suite.aniket, "", false, suite.page())
	suite.Require().NoError(err)
	suite.Require().Len(page.Notifications, 2)
	suite.Equal("N2", page.Notifications[0].ID)
	suite.Equal("N1", page.Notifications[1].ID)
	suite.Equal(int64(2), page.Matched)
	suite.Equal(int64(2), page.Stats.Total)
	suite.Equal(int64(2), page.Stats.Unread)

	_, err = suite.service.List(suite.aniket, "S2", false, suite.page())
	suite.ErrorIs(err, ErrAccessDenied)
	_, err = suite.service.List(views.Viewer{Name: "Nobody"}, "", false, suite.page())
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *NotificationServiceTestSuite) TestList_Manager() {
	page, err := suite.service.List(suite.manager, "", false, suite.page())
	suite.Require().NoError(err)
	suite.Len(page.Notifications, 3)

	page, err = suite.service.List(suite.manager, "S2", false, suite.page())
	suite.Require().NoError(err)
	suite.Require().Len(page.Notifications, 1)
	suite.Equal("N3", page.Notifications[0].ID)
}

func (suite *NotificationServiceTestSuite) TestMarkRead() {
	n, err := suite.service.MarkRead(suite.aniket, "N1")
	suite.Require().NoError(err)
	suite.True(n.IsRead)
	suite.Require().NotNil(n.ReadAt)
	suite.Equal(testNow, n.ReadAt.UTC())

	// Marking again is harmless.
	_, err = suite.service.MarkRead(suite.aniket, "N1")
	suite.NoError(err)

	page, err := suite.service.List(suite.aniket, "", true, suite.page())
	suite.Require().NoError(err)
	suite.Require().Len(page.Notifications, 1)
	suite.Equal("N2", page.Notifications[0].ID)
	suite.Equal(int64(1), page.Matched)
	suite.Equal(int64(1), page.Stats.Unread)
	suite.Equal(int64(1), page.Stats.Read())

	_, err = suite.service.MarkRead(suite.magesh, "N2")
	suite.ErrorIs(err, ErrNotificationNotFound)
	_, err = suite.service.MarkRead(suite.manager, "N404")
	suite.ErrorIs(err, ErrNotificationNotFound)
}

func (suite *NotificationServiceTestSuite) TestMarkAllRead() {
	marked, err := suite.service.MarkAllRead(suite.aniket, "")
	suite.Require().NoError(err)
	suite.Equal(int64(2), marked)

	marked, err = suite.service.MarkAllRead(suite.aniket, "")
	suite.Require().NoError(err)
	suite.Zero(marked)

	_, err = suite.service.MarkAllRead(suite.aniket, "S2")
	suite.ErrorIs(err, ErrAccessDenied)

	marked, err = suite.service.MarkAllRead(suite.manager, "")
	suite.Require().NoError(err)
	suite.Equal(int64(1), marked)
}

func (suite *NotificationServiceTestSuite) TestDelete() {
	suite.ErrorIs(suite.service.Delete(suite.magesh, "N1"), ErrNotificationNotFound)
	suite.Require().NoError(suite.service.Delete(suite.aniket, "N1"))
	suite.ErrorIs(suite.service.Delete(suite.aniket, "N1"), ErrNotificationNotFound)

	_, err := suite.service.Get(suite.manager, "N1")
	suite.ErrorIs(err, ErrNotificationNotFound)
	n, err := suite.service.Get(suite.manager, "N3")
	suite.Require().NoError(err)
	suite.Equal("other", n.Message)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
