package unitofwork

import (
	"context"

	"wolfpack-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DeviceTokenRepository() contract.DeviceTokenRepository
	LocationRepository() contract.LocationRepository
	PackMemberRepository() contract.PackMemberRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	MessageReactionRepository() contract.MessageReactionRepository
	InteractionRepository() contract.InteractionRepository
	PackEventRepository() contract.PackEventRepository
}
