package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"temo/internal/domain"
)

// Folders group uploaded images by what they illustrate.
const (
	FolderProducts        = "product-images"
	FolderDrinks          = "drink-images"
	FolderCategories      = "category-images"
	FolderDrinkCategories = "drink-category-images"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 5 << 20

var (
	ErrTooLarge        = fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, MaxUploadBytes)
	ErrUnsupportedType = fmt.Errorf("%w: unsupported image type", domain.ErrInvalidInput)
	ErrUnknownFolder   = errors.New("unknown storage folder")
)

// Object describes a stored blob.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Bucket stores uploaded images and hands out their public URLs.
type Bucket interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromURL recovers the object key from a URL this bucket produced.
	KeyFromURL(url string) (string, bool)
}

// ProductFolder returns the folder for product images of kind.
func ProductFolder(kind domain.Kind) string {
	if kind == domain.KindDrink {
		return FolderDrinks
	}
	return FolderProducts
}

// CategoryFolder returns the folder for category images of kind.
func CategoryFolder(kind domain.Kind) string {
	if kind == domain.KindDrink {
		return FolderDrinkCategories
	}
	return FolderCategories
}

func knownFolder(folder string) bool {
	switch folder {
	case FolderProducts, FolderDrinks, FolderCategories, FolderDrinkCategories:
		return true
	}
	return false
}
