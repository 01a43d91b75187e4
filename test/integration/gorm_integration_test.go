package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/repository/unitofwork"
	"wolfpack-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.PackMemberRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Message Repository", func(t *testing.T) {
		count, err := uow.ChatMessageRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChatMessage count: %d", count)
	})

	t.Run("Check Transactional Join With First Message", func(t *testing.T) {
		locationId := uuid.New()
		location := &entity.Location{
			Id:           locationId,
			Name:         "Integration Venue " + uuid.New().String(),
			Latitude:     44.94049607,
			Longitude:    -123.04139512,
			RadiusMeters: 100,
			IsActive:     true,
			CreatedAt:    time.Now(),
		}
		err := uow.LocationRepository().Create(context.Background(), location)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		userId := uuid.New()
		now := time.Now()
		member := &entity.PackMember{
			Id:             uuid.New(),
			UserId:         userId,
			LocationId:     locationId,
			Status:         entity.MemberStatusActive,
			Profile:        entity.MemberProfile{DisplayName: "Integration Wolf"},
			JoinedAt:       now,
			LastActivityAt: now,
		}
		err = uow.PackMemberRepository().Create(ctx, member)
		assert.NoError(t, err)

		session := &entity.ChatSession{
			Id:         uuid.New(),
			LocationId: locationId,
			Name:       "Pack Chat",
			IsActive:   true,
			CreatedAt:  now,
		}
		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		message := &entity.ChatMessage{
			Id:          uuid.New(),
			SessionId:   session.Id,
			SenderId:    userId,
			SenderName:  "Integration Wolf",
			Content:     "first howl",
			MessageType: entity.MessageTypeText,
			CreatedAt:   now,
		}
		err = uow.ChatMessageRepository().Create(ctx, message)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Membership with first Message in Transaction")
	})
}
