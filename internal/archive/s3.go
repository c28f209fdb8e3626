package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps snapshots as objects in an S3 or MinIO bucket, optionally
// under a key prefix so one bucket can serve several deployments.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an S3 archive from Config. Static credentials are used when
// AccessKey is set; otherwise the default credentials chain applies.
func NewS3(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

// Driver identifies the backend.
func (s *S3Store) Driver() Driver { return DriverS3 }

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// Put stores a snapshot under key, failing when the key already exists.
func (s *S3Store) Put(ctx context.Context, key string, data []byte) (Info, error) {
	if key == "" {
		return Info{}, fmt.Errorf("empty archive key")
	}
	objKey := s.objectKey(key)
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &objKey}); err == nil {
		return Info{}, fmt.Errorf("snapshot %s already exists", key)
	}
	contentType := "application/json"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &objKey,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return Info{}, err
	}
	return s.head(ctx, key)
}

// Get retrieves a snapshot by key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, Info, error) {
	objKey := s.objectKey(key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &objKey})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, Info{}, ErrNotFound
		}
		return nil, Info{}, err
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, Info{}, err
	}
	return data, Info{
		Key:       key,
		Size:      int64(len(data)),
		ETag:      cleanETag(out.ETag),
		CreatedAt: aws.ToTime(out.LastModified),
	}, nil
}

// List returns the stored snapshots under prefix, ordered by key.
func (s *S3Store) List(ctx context.Context, prefix string) ([]Info, error) {
	full := s.objectKey(prefix)
	var infos []Info
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &full,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if s.prefix != "" {
				key = strings.TrimPrefix(key, s.prefix+"/")
			}
			var size int64
			if obj.Size != nil {
				size = *obj.Size
			}
			infos = append(infos, Info{
				Key:       key,
				Size:      size,
				ETag:      cleanETag(obj.ETag),
				CreatedAt: aws.ToTime(obj.LastModified),
			})
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Delete removes a snapshot, reporting whether it existed.
func (s *S3Store) Delete(ctx context.Context, key string) (bool, error) {
	objKey := s.objectKey(key)
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &objKey}); err != nil {
		return false, nil
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &objKey}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *S3Store) head(ctx context.Context, key string) (Info, error) {
	objKey := s.objectKey(key)
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &objKey})
	if err != nil {
		return Info{}, err
	}
	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	created := time.Now().UTC()
	if out.LastModified != nil {
		created = *out.LastModified
	}
	return Info{Key: key, Size: size, ETag: cleanETag(out.ETag), CreatedAt: created}, nil
}

func cleanETag(etag *string) string {
	if etag == nil {
		return ""
	}
	return strings.Trim(*etag, "\"")
}

func isNoSuchKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "NoSuchKey")
}
