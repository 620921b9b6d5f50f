package storage

import "os"

// Config locates an S3-compatible bucket, typically a MinIO deployment.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// DefaultConfig matches a local MinIO started with stock credentials.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "tiles-bucket",
	}
}

// ConfigFromEnv overlays the MINIO_* environment variables on base.
func ConfigFromEnv(base Config) Config {
	base.Endpoint = getEnv("MINIO_ENDPOINT", base.Endpoint)
	base.Region = getEnv("MINIO_REGION", base.Region)
	base.AccessKey = getEnv("MINIO_ACCESS_KEY", base.AccessKey)
	base.SecretKey = getEnv("MINIO_SECRET_KEY", base.SecretKey)
	base.Bucket = getEnv("MINIO_BUCKET", base.Bucket)
	base.Prefix = getEnv("MINIO_PREFIX", base.Prefix)
	return base
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
