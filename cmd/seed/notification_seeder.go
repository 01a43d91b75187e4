package main

import (
	"wolfpack-be/internal/model"

	"github.com/fatih/color"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "MEMBER_JOINED",
			DisplayName: "New Pack Member",
			Template:    "{display_name} joined the pack",
			TargetType:  "PACK",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "MEMBER_LEFT",
			DisplayName: "Member Left",
			Template:    "A member left the pack",
			TargetType:  "PACK",
			Priority:    "LOW",
			IsActive:    false,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "WINK_SENT",
			DisplayName: "You Got a Wink",
			Template:    "{sender_name} winked at you 😉",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "push"]`)),
		},
		{
			Code:        "PACK_BROADCAST",
			DisplayName: "Announcement",
			Template:    "{title}: {body}",
			TargetType:  "PACK",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "push"]`)),
		},
		{
			Code:        "MESSAGE_FLAGGED",
			DisplayName: "Message Flagged",
			Template:    "A chat message was flagged for review",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    false,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "TEST_EVENT",
			DisplayName: "Test Notification",
			Template:    "This is a test notification: {message}",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		var existing model.NotificationType
		if err := db.Where("code = ?", t.Code).First(&existing).Error; err == nil {
			color.Yellow("Notification type '%s' already exists, skipping...", t.Code)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			color.Red("Failed to seed notification type '%s': %v", t.Code, err)
			continue
		}
		color.Green("Seeded notification type: %s", t.Code)
	}
}
