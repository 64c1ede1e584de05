package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/rawio/blobstore"
	miniostore "github.com/hupe1980/rawio/blobstore/minio"
	s3store "github.com/hupe1980/rawio/blobstore/s3"
	"github.com/hupe1980/rawio/codec"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/pflag"
)

// storeConfig holds the flags shared by the blob commands.
type storeConfig struct {
	codec    string
	cacheDir string

	s3Region   string
	s3Endpoint string

	minioAccessKey string
	minioSecretKey string
	minioInsecure  bool
}

func (c *storeConfig) flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("store", pflag.ContinueOnError)
	fs.StringVar(&c.codec, "codec", "", fmt.Sprintf("Compress blobs with this codec (%s)", strings.Join(codec.Names(), ", ")))
	fs.StringVar(&c.s3Region, "s3-region", "", "AWS region (defaults to the SDK configuration)")
	fs.StringVar(&c.s3Endpoint, "s3-endpoint", "", "Custom S3 endpoint URL (enables path-style addressing)")
	fs.StringVar(&c.minioAccessKey, "minio-access-key", os.Getenv("MINIO_ACCESS_KEY"), "MinIO access key")
	fs.StringVar(&c.minioSecretKey, "minio-secret-key", os.Getenv("MINIO_SECRET_KEY"), "MinIO secret key")
	fs.BoolVar(&c.minioInsecure, "minio-insecure", false, "Connect to MinIO over plain HTTP")
	return fs
}

// location is a parsed blob URL.
type location struct {
	scheme string
	host   string // bucket for s3, endpoint for minio
	bucket string
	name   string
}

// parseLocation accepts s3://bucket/key, minio://endpoint/bucket/key and
// file:///dir/key.
func parseLocation(raw string) (location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return location{}, fmt.Errorf("invalid blob URL %q: %w", raw, err)
	}
	p := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "s3":
		if u.Host == "" || p == "" {
			return location{}, fmt.Errorf("invalid S3 URL %q: want s3://bucket/key", raw)
		}
		return location{scheme: "s3", bucket: u.Host, name: p}, nil
	case "minio":
		bucket, key, ok := strings.Cut(p, "/")
		if u.Host == "" || !ok || bucket == "" || key == "" {
			return location{}, fmt.Errorf("invalid MinIO URL %q: want minio://host[:port]/bucket/key", raw)
		}
		return location{scheme: "minio", host: u.Host, bucket: bucket, name: key}, nil
	case "file":
		if u.Path == "" {
			return location{}, fmt.Errorf("invalid file URL %q: want file:///dir/key", raw)
		}
		path := filepath.FromSlash(u.Path)
		return location{scheme: "file", bucket: filepath.Dir(path), name: filepath.Base(path)}, nil
	default:
		return location{}, fmt.Errorf("unsupported blob URL scheme %q", u.Scheme)
	}
}

// open builds the store for loc, wrapped in a codec and a local cache when
// configured.
func (c *storeConfig) open(ctx context.Context, loc location, withCache bool) (blobstore.BlobStore, error) {
	var store blobstore.BlobStore

	switch loc.scheme {
	case "s3":
		var optFns []func(*config.LoadOptions) error
		if c.s3Region != "" {
			optFns = append(optFns, config.WithRegion(c.s3Region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
			if c.s3Endpoint != "" {
				o.BaseEndpoint = aws.String(c.s3Endpoint)
				o.UsePathStyle = true
			}
		})
		store = s3store.NewStore(client, loc.bucket, "")
	case "minio":
		client, err := minio.New(loc.host, &minio.Options{
			Creds:  credentials.NewStaticV4(c.minioAccessKey, c.minioSecretKey, ""),
			Secure: !c.minioInsecure,
		})
		if err != nil {
			return nil, fmt.Errorf("create MinIO client: %w", err)
		}
		store = miniostore.NewStore(client, loc.bucket, "")
	case "file":
		store = blobstore.NewLocalStore(loc.bucket)
	}

	if c.codec != "" {
		cd, ok := codec.ByName(c.codec)
		if !ok {
			return nil, fmt.Errorf("unknown codec %q", c.codec)
		}
		store = blobstore.NewCompressedStore(store, cd)
	}

	if withCache && c.cacheDir != "" {
		store = blobstore.NewLocalCache(store, c.cacheDir)
	}
	return store, nil
}
