package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"

	cfg "github.com/maheshrc27/instaflow/configs"
)

// Image formats the Graph API accepts for feed and story media.
var allowedMediaTypes = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {},
}

type MediaService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type mediaService struct {
	config cfg.Config
}

func NewMediaService(cfg cfg.Config) MediaService {
	return &mediaService{config: cfg}
}

func (s *mediaService) r2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.config.R2.AccessKey, s.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.config.R2.AccountID))
	}), nil
}

// Upload stores the file in R2 and returns a publicly fetchable URL the
// Graph API can pull the media from.
func (s *mediaService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	fileContent, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return "", fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return "", fmt.Errorf("unsupported file type: %w", err)
	}
	if _, ok := allowedMediaTypes[fileType.Extension]; !ok {
		return "", fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	client, err := s.r2Client(ctx)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(fileType.MIME.Value),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	fileURL := fmt.Sprintf("%s/%s", s.config.R2.PublicURL, key)
	slog.Info("media uploaded", "key", key, "url", fileURL)
	return fileURL, nil
}
