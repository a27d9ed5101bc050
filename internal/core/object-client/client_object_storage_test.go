package objectclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/markdave123-py/docscan/internal/config"
)

func TestNewS3Client_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  cfg.Config
		want string
	}{
		{"no credentials", cfg.Config{AwsRegion: "us-east-2", BucketName: "b"}, "credentials"},
		{"no region", cfg.Config{AwsAccessKey: "a", AwsSecretKey: "s", BucketName: "b"}, "AWS_REGION"},
		{"no bucket", cfg.Config{AwsAccessKey: "a", AwsSecretKey: "s", AwsRegion: "us-east-2"}, "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cfg
			_, err := NewS3Client(context.Background(), &c)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewS3Client_StaticCredentials(t *testing.T) {
	client, err := NewS3Client(context.Background(), &cfg.Config{
		AwsAccessKey: "AKIAEXAMPLE",
		AwsSecretKey: "secret",
		AwsRegion:    "sa-east-1",
		BucketName:   "docscan-originals",
	})
	require.NoError(t, err)

	s3c, ok := client.(*S3Client)
	require.True(t, ok)
	assert.Equal(t, "docscan-originals", s3c.bucket)
	assert.Equal(t, "sa-east-1", s3c.region)
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"https://docscan-originals.s3.sa-east-1.amazonaws.com/scans/42/rg.png",
		ObjectURL("docscan-originals", "sa-east-1", "scans/42/rg.png"))
}
