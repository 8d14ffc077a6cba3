package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient holds the MinIO client and bucket name. The platform stores
// result exports and uploaded knowledge-base documents as objects.
type MinioClient struct {
	Client     *minio.Client
	BucketName string
}

var globalMinioClient *MinioClient

// InitMinioClient initializes the global MinIO client from environment
// variables. Called at application startup; the object store is optional
// and callers should treat an error as a degraded-mode signal.
func InitMinioClient() error {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKeyID := os.Getenv("MINIO_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("MINIO_SECRET_ACCESS_KEY")
	bucketName := os.Getenv("MINIO_BUCKET_NAME")
	useSSLStr := os.Getenv("MINIO_USE_SSL")

	if endpoint == "" || accessKeyID == "" || secretAccessKey == "" || bucketName == "" {
		return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, and MINIO_BUCKET_NAME must be set")
	}

	useSSL, err := strconv.ParseBool(useSSLStr)
	if err != nil {
		log.Printf("WARNING: MINIO_USE_SSL is not a valid boolean (%q), defaulting to false", useSSLStr)
		useSSL = false
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if MinIO bucket '%s' exists: %w", bucketName, err)
	}
	if !exists {
		log.Printf("MinIO bucket '%s' does not exist, creating it.", bucketName)
		if err := minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create MinIO bucket '%s': %w", bucketName, err)
		}
	}

	globalMinioClient = &MinioClient{
		Client:     minioClient,
		BucketName: bucketName,
	}
	log.Println("MinIO client initialized successfully.")
	return nil
}

// Enabled reports whether the object store was configured at startup.
func Enabled() bool {
	return globalMinioClient != nil
}

// GetGlobalMinioClient returns the initialized global MinIO client.
func GetGlobalMinioClient() (*MinioClient, error) {
	if globalMinioClient == nil {
		return nil, fmt.Errorf("MinIO client not initialized. Call InitMinioClient first")
	}
	return globalMinioClient, nil
}

// UploadJSON stores a JSON payload under prefix with a generated object
// key and returns the key. Used for dashboard result exports.
func UploadJSON(ctx context.Context, prefix string, payload []byte) (string, error) {
	mc, err := GetGlobalMinioClient()
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("%s/%s.json", prefix, uuid.New().String())
	_, err = mc.Client.PutObject(ctx, mc.BucketName, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload JSON object '%s': %w", objectName, err)
	}
	return objectName, nil
}

// UploadFile uploads a document to the configured bucket and returns the
// unique object name. objectName is generated internally to avoid clashes.
func (mc *MinioClient) UploadFile(ctx context.Context, originalFilename string, reader io.Reader, size int64, contentType string) (string, error) {
	if mc.Client == nil {
		return "", fmt.Errorf("MinIO client not initialized properly in MinioClient struct")
	}
	if mc.BucketName == "" {
		return "", fmt.Errorf("MinIO bucket name not configured in MinioClient struct")
	}

	uniqueID := uuid.New().String()
	extension := filepath.Ext(originalFilename)
	objectName := fmt.Sprintf("documents/%s%s", uniqueID, extension)

	uploadInfo, err := mc.Client.PutObject(ctx, mc.BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to MinIO (bucket: %s, object: %s): %w", mc.BucketName, objectName, err)
	}

	log.Printf("Successfully uploaded '%s' of size %d to MinIO. ETag: %s", objectName, uploadInfo.Size, uploadInfo.ETag)
	return objectName, nil
}

// DeleteFile deletes an object from the configured bucket.
func (mc *MinioClient) DeleteFile(ctx context.Context, objectName string) error {
	if mc.Client == nil {
		return fmt.Errorf("MinIO client not initialized properly in MinioClient struct")
	}
	if mc.BucketName == "" {
		return fmt.Errorf("MinIO bucket name not configured in MinioClient struct")
	}

	if err := mc.Client.RemoveObject(ctx, mc.BucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object '%s' from MinIO bucket '%s': %w", objectName, mc.BucketName, err)
	}
	return nil
}

// GetFileBytes retrieves an object as a byte slice.
func (mc *MinioClient) GetFileBytes(ctx context.Context, objectName string) ([]byte, error) {
	if mc.Client == nil {
		return nil, fmt.Errorf("MinIO client not initialized properly in MinioClient struct")
	}
	if mc.BucketName == "" {
		return nil, fmt.Errorf("MinIO bucket name not configured in MinioClient struct")
	}

	object, err := mc.Client.GetObject(ctx, mc.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", objectName, mc.BucketName, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object '%s' data: %w", objectName, err)
	}
	return data, nil
}

// GetFileReader retrieves an object as an io.ReadCloser plus its size.
// The caller is responsible for closing the reader.
func (mc *MinioClient) GetFileReader(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	if mc.Client == nil {
		return nil, 0, fmt.Errorf("MinIO client not initialized properly in MinioClient struct")
	}
	if mc.BucketName == "" {
		return nil, 0, fmt.Errorf("MinIO bucket name not configured in MinioClient struct")
	}

	object, err := mc.Client.GetObject(ctx, mc.BucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", objectName, mc.BucketName, err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, 0, fmt.Errorf("failed to get object stats for '%s': %w", objectName, err)
	}

	return object, stat.Size, nil
}
