package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
	KeyFromPublicURL(publicURL string) (string, bool)
}

// allowedAvatarTypes - MIME-типы аватаров и расширения файлов для них.
var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// AvatarExtension возвращает расширение для content type или false, если тип не поддерживается.
func AvatarExtension(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := allowedAvatarTypes[ct]
	return ext, ok
}

// AvatarKey - уникальный ключ объекта; новая загрузка не перезаписывает старый файл в кешах CDN.
func AvatarKey(memberID int, ext string) string {
	return path.Join("avatars", fmt.Sprintf("member-%d", memberID), uuid.NewString()+ext)
}
