// Package app assembles repositories, services and the HTTP router on top of
// an opened database.
package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apphttp "campushub/internal/http"
	"campushub/internal/repository/sqlite"
	"campushub/internal/service"
	"campushub/internal/storage"
)

// Options configures the assembled server.
type Options struct {
	HTTP       apphttp.Options
	BcryptCost int
	Storage    storage.Service
	Upload     storage.UploadOptions
	Logger     *logrus.Logger
}

// NewServices builds the service layer over a migrated database.
func NewServices(db *sql.DB, opts Options) (apphttp.Services, error) {
	users := sqlite.NewUserRepository(db)

	sessions, err := service.NewSessionService(users, opts.BcryptCost)
	if err != nil {
		return apphttp.Services{}, err
	}

	return apphttp.Services{
		Sessions:   sessions,
		Profiles:   service.NewProfileService(users),
		Engagement: service.NewEngagementService(sqlite.NewEngagementRepository(db)),
		Notices:    service.NewNoticeService(sqlite.NewNoticeRepository(db)),
		Forum:      service.NewForumService(sqlite.NewPostRepository(db)),
		Resources:  service.NewResourceService(sqlite.NewResourceRepository(db)),
		Contact:    service.NewContactService(sqlite.NewContactRepository(db)),
		Uploads:    service.NewUploadService(opts.Storage, opts.Upload),
	}, nil
}

// NewRouter returns a gin engine serving the portal API.
func NewRouter(db *sql.DB, opts Options) (*gin.Engine, error) {
	svc, err := NewServices(db, opts)
	if err != nil {
		return nil, err
	}
	if opts.HTTP.Logger == nil {
		opts.HTTP.Logger = opts.Logger
	}

	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(svc, opts.HTTP).RegisterRoutes(router)
	return router, nil
}
