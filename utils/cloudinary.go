package utils

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"

	"silverarcade/config"
	"silverarcade/services/storage"
)

// Cloudinary initializes the Cloudinary-backed media service from config.
func Cloudinary() (storage.MediaService, error) {
	cloudName := config.AppConfig.CloudinaryCloudName
	apiKey := config.AppConfig.CloudinaryAPIKey
	apiSecret := config.AppConfig.CloudinaryAPISecret
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return storage.NewCloudinaryService(cld, cloudName, apiSecret), nil
}
