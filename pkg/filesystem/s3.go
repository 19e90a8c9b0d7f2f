package filesystem

import (
	"context"
	stderrors "errors"
	"fmt"
	"iter"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/megvii-research/go-megfile/pkg/config"
	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/registry"
	"github.com/megvii-research/go-megfile/pkg/types"
	"github.com/megvii-research/go-megfile/pkg/uri"
)

// s3API is the slice of the S3 client the backend needs. Tests substitute
// a fake; the paginator accepts anything with ListObjectsV2.
type s3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// s3FS implements types.FileSystem on an S3-compatible object store.
// Directories are an illusion kept up by the "/" delimiter: a path is a
// directory when at least one key continues past it.
type s3FS struct {
	client s3API
}

// NewS3 creates an S3 backend bound to the named connection profile
func NewS3(ctx context.Context, profile string) (types.FileSystem, error) {
	p, err := config.GetProfile(profile)
	if err != nil {
		return nil, err
	}
	client, err := newS3Client(ctx, p.S3)
	if err != nil {
		return nil, err
	}
	return &s3FS{client: client}, nil
}

// NewS3WithClient creates an S3 backend over an existing client
func NewS3WithClient(client s3API) types.FileSystem {
	return &s3FS{client: client}
}

func init() {
	err := registry.RegisterFileSystem("s3", func(profile string) (types.FileSystem, error) {
		return NewS3(context.Background(), profile)
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register s3 filesystem: %v", err))
	}
}

func newS3Client(ctx context.Context, p config.S3Profile) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if p.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(p.Region))
	}
	if p.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.AccessKey, p.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to load AWS configuration")
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.Endpoint)
		}
		o.UsePathStyle = p.PathStyle
	}), nil
}

func (s *s3FS) Scheme() string {
	return "s3"
}

// parseS3Path splits an S3 URI into bucket and key. The scheme prefix is
// optional; s3://bucket gives ("bucket", "") and s3:// gives ("", "").
func parseS3Path(path string) (bucket, key string) {
	_, rest := uri.SplitPrefix(path)
	bucket, key, _ = strings.Cut(rest, "/")
	return bucket, key
}

func becomePrefix(key string) string {
	if key != "" && !strings.HasSuffix(key, "/") {
		return key + "/"
	}
	return key
}

func (s *s3FS) Exists(ctx context.Context, path string) (bool, error) {
	bucket, key := parseS3Path(path)
	if bucket == "" {
		// s3:// is the bucket-list root; s3:///key is nothing
		return key == "", nil
	}
	ok, err := s.IsFile(ctx, path)
	if err != nil || ok {
		return ok, err
	}
	return s.IsDir(ctx, path)
}

func (s *s3FS) IsFile(ctx context.Context, path string) (bool, error) {
	bucket, key := parseS3Path(path)
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return false, nil
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if terr := translateS3Error(err, path); isFatalS3Error(terr) {
			return false, terr
		}
		return false, nil
	}
	return true, nil
}

func (s *s3FS) IsDir(ctx context.Context, path string) (bool, error) {
	bucket, key := parseS3Path(path)
	if bucket == "" {
		return key == "", nil
	}
	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(becomePrefix(key)),
		Delimiter: aws.String("/"),
		MaxKeys:   aws.Int32(1),
	})
	if err != nil {
		if terr := translateS3Error(err, path); isFatalS3Error(terr) {
			return false, terr
		}
		return false, nil
	}
	if key == "" {
		// The bucket itself is listable
		return true, nil
	}
	return aws.ToInt32(resp.KeyCount) > 0, nil
}

func (s *s3FS) Stat(ctx context.Context, path string) (types.StatResult, error) {
	bucket, key := parseS3Path(path)
	if bucket == "" {
		return types.StatResult{}, errors.Newf(errors.ErrBucketNotFound, "empty bucket name: %s", path).
			WithDetail("path", path)
	}

	ok, err := s.IsFile(ctx, path)
	if err != nil {
		return types.StatResult{}, err
	}
	if !ok {
		return s.dirStat(ctx, path)
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return types.StatResult{}, translateS3Error(err, path)
	}
	stat := types.StatResult{
		Size:       aws.ToInt64(head.ContentLength),
		ModifyTime: aws.ToTime(head.LastModified),
	}
	for k := range head.Metadata {
		if strings.EqualFold(k, "symlink_to") {
			stat.IsLink = true
			break
		}
	}
	return stat, nil
}

// dirStat aggregates every object under the prefix: size is the sum,
// modify time the latest. A prefix with no objects at all does not exist.
func (s *s3FS) dirStat(ctx context.Context, path string) (types.StatResult, error) {
	bucket, key := parseS3Path(path)
	stat := types.StatResult{IsDir: true}
	count := 0

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(becomePrefix(key)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return types.StatResult{}, translateS3Error(err, path)
		}
		for _, obj := range page.Contents {
			count++
			stat.Size += aws.ToInt64(obj.Size)
			if mod := aws.ToTime(obj.LastModified); mod.After(stat.ModifyTime) {
				stat.ModifyTime = mod
			}
		}
	}
	if count == 0 {
		return types.StatResult{}, errors.Newf(errors.ErrNotFound, "no such file or directory: %s", path).
			WithDetail("path", path)
	}
	return stat, nil
}

func (s *s3FS) ScanDir(ctx context.Context, dir string) iter.Seq2[types.Entry, error] {
	return func(yield func(types.Entry, error) bool) {
		schemePrefix, rest := uri.SplitPrefix(dir)
		bucket, key, _ := strings.Cut(rest, "/")

		if bucket == "" && key != "" {
			yield(types.Entry{}, errors.Newf(errors.ErrBucketNotFound, "empty bucket name: %s", dir).
				WithDetail("path", dir))
			return
		}
		if bucket == "" {
			s.scanBuckets(ctx, schemePrefix, yield)
			return
		}

		if ok, err := s.IsFile(ctx, dir); err != nil {
			yield(types.Entry{}, err)
			return
		} else if ok {
			yield(types.Entry{}, errors.Newf(errors.ErrNotADirectory, "not a directory: %s", dir).
				WithDetail("path", dir))
			return
		}

		prefix := becomePrefix(key)
		found := false
		paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
			Bucket:    aws.String(bucket),
			Prefix:    aws.String(prefix),
			Delimiter: aws.String("/"),
		})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(types.Entry{}, translateS3Error(err, dir))
				return
			}
			for _, cp := range page.CommonPrefixes {
				sub := aws.ToString(cp.Prefix)
				found = true
				entry := types.Entry{
					Name: strings.TrimSuffix(strings.TrimPrefix(sub, prefix), "/"),
					Path: schemePrefix + bucket + "/" + sub,
					Stat: types.StatResult{IsDir: true},
				}
				if !yield(entry, nil) {
					return
				}
			}
			for _, obj := range page.Contents {
				k := aws.ToString(obj.Key)
				if strings.HasSuffix(k, "/") {
					// Zero-byte placeholder objects mark empty directories
					continue
				}
				found = true
				entry := types.Entry{
					Name: strings.TrimPrefix(k, prefix),
					Path: schemePrefix + bucket + "/" + k,
					Stat: types.StatResult{
						Size:       aws.ToInt64(obj.Size),
						ModifyTime: aws.ToTime(obj.LastModified),
					},
				}
				if !yield(entry, nil) {
					return
				}
			}
		}
		// An empty bucket still scans clean; an empty prefix does not exist
		if !found && key != "" {
			yield(types.Entry{}, errors.Newf(errors.ErrNotFound, "no such directory: %s", dir).
				WithDetail("path", dir))
		}
	}
}

func (s *s3FS) scanBuckets(ctx context.Context, schemePrefix string, yield func(types.Entry, error) bool) {
	resp, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		yield(types.Entry{}, translateS3Error(err, schemePrefix))
		return
	}
	for _, b := range resp.Buckets {
		name := aws.ToString(b.Name)
		entry := types.Entry{
			Name: name,
			Path: schemePrefix + name,
			Stat: types.StatResult{IsDir: true, CreateTime: aws.ToTime(b.CreationDate)},
		}
		if !yield(entry, nil) {
			return
		}
	}
}

func (s *s3FS) Glob(ctx context.Context, pattern string, opts ...glob.Option) ([]string, error) {
	return GlobAll(ctx, s, pattern, opts...)
}

func (s *s3FS) IGlob(ctx context.Context, pattern string, opts ...glob.Option) iter.Seq2[string, error] {
	return IGlobAll(ctx, s, pattern, opts...)
}

// translateS3Error maps service errors onto the error taxonomy. The
// original error always stays in the chain.
func translateS3Error(err error, path string) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return errors.Wrapf(err, errors.ErrBucketNotFound, "no such bucket: %s", path).
				WithDetail("path", path)
		case "NoSuchKey", "NotFound", "404":
			return errors.Wrapf(err, errors.ErrNotFound, "no such file or directory: %s", path).
				WithDetail("path", path)
		case "AccessDenied", "401", "403":
			return errors.Wrapf(err, errors.ErrPermission, "permission denied: %s", path).
				WithDetail("path", path)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid S3 credentials for %s", path).
				WithDetail("path", path)
		}
	}
	var respErr *awshttp.ResponseError
	if stderrors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case 404:
			return errors.Wrapf(err, errors.ErrNotFound, "no such file or directory: %s", path).
				WithDetail("path", path)
		case 401, 403:
			return errors.Wrapf(err, errors.ErrPermission, "permission denied: %s", path).
				WithDetail("path", path)
		}
	}
	return errors.Wrapf(err, errors.ErrUnknown, "s3 request failed for %s", path).
		WithDetail("path", path)
}

// isFatalS3Error reports whether a translated error must surface from an
// existence probe instead of reading as absent.
func isFatalS3Error(err error) bool {
	return errors.IsErrorCode(err, errors.ErrUnknown) ||
		errors.IsErrorCode(err, errors.ErrConfigValid) ||
		errors.IsErrorCode(err, errors.ErrPermission)
}
