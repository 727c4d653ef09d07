package stores

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

/*
S3Driver stores each key as a JSON object in an S3 bucket, under an optional
prefix. Object names are "<prefix>/<key>.json".
*/
type S3Driver struct {
	client s3.S3Client
	bucket string
	prefix string
}

func NewS3Driver(client s3.S3Client, bucket, prefix string) *S3Driver {
	return &S3Driver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (d *S3Driver) EnsureBucket(region string) error {
	exists, err := d.client.BucketExists(d.bucket)
	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", d.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", d.bucket)

	if err = d.client.CreateBucket(d.bucket, createbucketoptions.WithRegion(region)); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", d.bucket, err)
	}

	return nil
}

func (d *S3Driver) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		err    error
		stat   *s3.ObjectMetadata
		object s3.GetObjectResponse
	)

	objectKey := d.objectKey(key)

	if stat, err = d.client.StatObject(d.bucket, objectKey); err != nil {
		return nil, fmt.Errorf("error retrieving metadata for '%s': %w", objectKey, err)
	}

	if stat == nil {
		return nil, ErrKeyNotFound
	}

	if object, err = d.client.Get(d.bucket, objectKey, getoptions.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("error getting object '%s': %w", objectKey, err)
	}

	defer object.Body.Close()
	return io.ReadAll(object.Body)
}

func (d *S3Driver) Put(_ context.Context, key string, value []byte) error {
	objectKey := d.objectKey(key)

	if _, err := d.client.Put(d.bucket, objectKey, bytes.NewReader(value)); err != nil {
		return fmt.Errorf("error uploading object '%s': %w", objectKey, err)
	}

	return nil
}

func (d *S3Driver) Delete(_ context.Context, key string) error {
	objectKey := d.objectKey(key)

	if _, err := d.client.Delete(d.bucket, []string{objectKey}); err != nil {
		return fmt.Errorf("error deleting object '%s': %w", objectKey, err)
	}

	return nil
}

func (d *S3Driver) Keys(_ context.Context, prefix string) ([]string, error) {
	response, err := d.client.List(
		d.bucket,
		d.objectPrefix(prefix),
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return strings.HasSuffix(aws.ToString(obj.Key), ".json")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("error listing objects with prefix '%s': %w", prefix, err)
	}

	result := make([]string, 0, len(response.Objects))

	for _, obj := range response.Objects {
		if key, ok := d.keyFromObject(obj.Key); ok {
			result = append(result, key)
		}
	}

	return result, nil
}

func (d *S3Driver) Close() error {
	return nil
}

func (d *S3Driver) objectKey(key string) string {
	return d.objectPrefix(key) + ".json"
}

func (d *S3Driver) objectPrefix(key string) string {
	if d.prefix == "" {
		return key
	}

	return path.Join(d.prefix, key)
}

func (d *S3Driver) keyFromObject(objectKey string) (string, bool) {
	if !strings.HasSuffix(objectKey, ".json") {
		return "", false
	}

	key := strings.TrimSuffix(objectKey, ".json")

	if d.prefix != "" {
		if !strings.HasPrefix(key, d.prefix+"/") {
			return "", false
		}

		key = strings.TrimPrefix(key, d.prefix+"/")
	}

	return key, true
}
