package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawsteps/pawsteps-backend/internal/config"
	"github.com/pawsteps/pawsteps-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Identity{},
		&models.RefreshToken{},
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Invitation{},
		&models.Dog{},
		&models.TrainingSession{},
		&models.TrainingProgress{},
		&models.TrainingContent{},
		&models.UserProgress{},
		&models.ActivityLog{},
		&models.SystemLog{},
	))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		BillingTimeout:   5 * time.Second,
		BaseURL:          "http://localhost:3000",
		Port:             "8080",
	}
}

func newTestServices(t *testing.T) (*gorm.DB, *AuthService, *AccountService) {
	t.Helper()
	db := newTestDB(t)
	auth := NewAuthService(db, newTestConfig())
	account := NewAccountService(db, auth)
	return db, auth, account
}

func countActivity(t *testing.T, db *gorm.DB, userID uuid.UUID, action models.ActivityType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ActivityLog{}).
		Where("user_id = ? AND action = ?", userID, action).
		Count(&n).Error)
	return n
}
