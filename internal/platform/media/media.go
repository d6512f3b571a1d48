// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media stores profile images (avatars and cover images) in
S3-compatible object storage.

Uploads are made from a local file path: the HTTP layer spools multipart
parts to disk first and hands the path over. Each stored object is
identified by its PublicID (the object key), which is later used to delete
a replaced asset.
*/
package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrEmptyPath is returned when Upload is called without a file.
var ErrEmptyPath = errors.New("media: empty file path")

// sniffLength is the number of bytes http.DetectContentType inspects.
const sniffLength = 512

// Asset is a stored object as seen by the domain.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Uploader is the media collaborator used by the account services.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// ObjectAPI is the subset of the S3 client used by [S3Uploader].
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds the object storage settings.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	KeyPrefix       string
}

// S3Uploader implements [Uploader] on top of an S3 bucket.
type S3Uploader struct {
	client        ObjectAPI
	bucket        string
	publicBaseURL string
	keyPrefix     string
	now           func() time.Time
}

// NewS3Client builds an S3 client from static credentials.
//
// A custom endpoint (MinIO, R2, LocalStack) switches the client to path-style addressing.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	options := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Uploader wraps an S3 client.
func NewS3Uploader(client ObjectAPI, cfg Config) *S3Uploader {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "profiles"
	}

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		keyPrefix:     strings.Trim(prefix, "/"),
		now:           time.Now,
	}
}

// Upload stores the file at localPath and returns its public URL and key.
func (uploader *S3Uploader) Upload(ctx context.Context, localPath string) (*Asset, error) {
	if localPath == "" {
		return nil, ErrEmptyPath
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", filepath.Base(localPath), err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("media: stat: %w", err)
	}

	header := make([]byte, sniffLength)
	read, _ := file.Read(header)
	contentType := http.DetectContentType(header[:read])
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("media: rewind: %w", err)
	}

	key := uploader.objectKey(filepath.Ext(localPath))

	_, err = uploader.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(uploader.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("media: put object: %w", err)
	}

	return &Asset{URL: uploader.publicURL(key), PublicID: key}, nil
}

// Delete removes a previously uploaded object. Deleting a missing key is not an error.
func (uploader *S3Uploader) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	_, err := uploader.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(uploader.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("media: delete object: %w", err)
	}
	return nil
}

func (uploader *S3Uploader) objectKey(ext string) string {
	d := uploader.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", uploader.keyPrefix, d.Year(), d.Month(), d.Day(), uuid.NewString(), strings.ToLower(ext))
}

func (uploader *S3Uploader) publicURL(key string) string {
	if uploader.publicBaseURL == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", uploader.bucket, key)
	}
	return uploader.publicBaseURL + "/" + key
}
