package dto

type RegisterDeviceTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

type UploadAvatarResponse struct {
	URL string `json:"url"`
}
