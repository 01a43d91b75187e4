package service

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/repository/specification"
	"wolfpack-be/internal/repository/unitofwork"
	"wolfpack-be/pkg/storage"

	"github.com/google/uuid"
)

type IMediaService interface {
	UploadAvatar(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (*dto.UploadAvatarResponse, error)
	UploadChatImage(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (*dto.UploadAvatarResponse, error)
}

type mediaService struct {
	uowFactory unitofwork.RepositoryFactory
	uploader   storage.Uploader
}

func NewMediaService(uowFactory unitofwork.RepositoryFactory, uploader storage.Uploader) IMediaService {
	return &mediaService{uowFactory: uowFactory, uploader: uploader}
}

func readUpload(file *multipart.FileHeader) ([]byte, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindValidationFailed, "could not read uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindValidationFailed, "could not read uploaded file", err)
	}
	return data, file.Header.Get("Content-Type"), nil
}

// UploadAvatar stores a profile picture and updates the user's avatar URL.
func (s *mediaService) UploadAvatar(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (*dto.UploadAvatarResponse, error) {
	data, contentType, err := readUpload(file)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload("avatars", userId.String(), file.Filename, contentType, data)
	if err != nil {
		return nil, apperr.ValidationFailed(err.Error())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return nil, apperr.AuthRequired("user not found")
	}
	user.AvatarURL = &url
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, apperr.Unavailable("failed to save avatar", err)
	}

	// Active pack profiles carry a copy of the avatar; refresh them too.
	members, err := uow.PackMemberRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.ActiveOnly{},
	)
	if err == nil {
		for _, m := range members {
			m.Profile.AvatarURL = &url
			m.LastActivityAt = time.Now()
			_ = uow.PackMemberRepository().Update(ctx, m)
		}
	}

	return &dto.UploadAvatarResponse{URL: url}, nil
}

// UploadChatImage stores an image for embedding in a chat message.
func (s *mediaService) UploadChatImage(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (*dto.UploadAvatarResponse, error) {
	data, contentType, err := readUpload(file)
	if err != nil {
		return nil, err
	}

	fileID := userId.String() + "-" + uuid.NewString()
	url, err := s.uploader.Upload("chat-images", fileID, file.Filename, contentType, data)
	if err != nil {
		return nil, apperr.ValidationFailed(err.Error())
	}

	return &dto.UploadAvatarResponse{URL: url}, nil
}
