package db

import (
	"github.com/pkg/errors"

	"github.com/savvy-app/savvy/internal/profile"
	"github.com/savvy-app/savvy/store"
	"github.com/savvy-app/savvy/store/db/memory"
	"github.com/savvy-app/savvy/store/db/sqlite"
)

// NewDBDriver creates a new storage driver based on profile.
//
// sqlite is the default and matches the single-user, on-device shape of the
// client. memory backs demo mode and tests; it loses everything on exit.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "memory":
		driver = memory.NewDB()
	default:
		return nil, errors.New("unknown storage driver: only 'sqlite' and 'memory' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create storage driver")
	}
	return driver, nil
}
