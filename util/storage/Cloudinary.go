package storage

import (
	"context"
	"io"

	"github.com/bwise1/media_ranker/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

// CoverFolder is where work covers are stored.
const CoverFolder = "media_ranker/covers"

type Cloudinary struct {
	CLD *cloudinary.Cloudinary
}

// NewCloudinary returns nil without an error when no credentials are set.
func NewCloudinary(cfg *config.Config) (*Cloudinary, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, errors.Wrap(err, "initialize cloudinary")
	}
	cld.Config.URL.Secure = true

	return &Cloudinary{CLD: cld}, nil
}

// UploadCover stores file under publicID in the cover folder, replacing any
// earlier upload, and returns its https URL.
func (c *Cloudinary) UploadCover(ctx context.Context, file io.Reader, publicID string) (string, error) {
	resp, err := c.CLD.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       CoverFolder,
		PublicID:     publicID,
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return "", errors.Wrap(err, "upload cover")
	}
	if resp.Error.Message != "" {
		return "", errors.Errorf("upload cover: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
