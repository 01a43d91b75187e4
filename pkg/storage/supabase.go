package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

const maxUploadBytes = 5 * 1024 * 1024 // 5MB, enforced at this boundary

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Uploader interface {
	Upload(folder, fileID, filename, contentType string, data []byte) (string, error)
}

type supabaseUploader struct {
	client *storage.Client
	bucket string
}

func NewSupabaseUploader(supabaseURL, serviceKey, bucket string) Uploader {
	client := storage.NewClient(supabaseURL+"/storage/v1", serviceKey, nil)
	return &supabaseUploader{client: client, bucket: bucket}
}

// Upload pushes an image asset and returns its public URL. Only JPEG, PNG
// and WebP are accepted, capped at 5MB.
func (u *supabaseUploader) Upload(folder, fileID, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	if len(data) > maxUploadBytes {
		return "", fmt.Errorf("file exceeds %d byte limit", maxUploadBytes)
	}

	ext, ok := allowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
	if e := filepath.Ext(filename); e != "" {
		ext = e
	}

	objectPath := fmt.Sprintf("%s%s", fileID, ext)
	if folder != "" {
		objectPath = fmt.Sprintf("%s/%s%s", folder, fileID, ext)
	}

	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := u.client.UploadFile(u.bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	resp := u.client.GetPublicUrl(u.bucket, objectPath)
	return resp.SignedURL, nil
}
