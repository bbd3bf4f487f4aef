package storage

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Scheme is the URI scheme every storage path must carry.
const Scheme = "s3://"

var bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

// Location is a parsed S3 URI.
type Location struct {
	Bucket string
	Key    string
}

// String renders the location back into s3://bucket/key form.
func (l Location) String() string {
	if l.Key == "" {
		return Scheme + l.Bucket
	}
	return Scheme + l.Bucket + "/" + l.Key
}

// Checker validates that S3 paths stay inside an expected bucket/prefix
// structure. The zero value accepts any well-formed bucket.
type Checker struct {
	allowedBuckets []string
}

// NewChecker creates a Checker. When allowedBuckets is non-empty, paths
// pointing at any other bucket are rejected.
func NewChecker(allowedBuckets ...string) *Checker {
	allowed := make([]string, 0, len(allowedBuckets))
	for _, b := range allowedBuckets {
		if b = strings.TrimSpace(b); b != "" {
			allowed = append(allowed, b)
		}
	}
	return &Checker{allowedBuckets: allowed}
}

// Check parses raw and rejects it when it is malformed, contains traversal
// segments, or targets a bucket outside the allow list.
func (c *Checker) Check(raw string) (Location, error) {
	if raw == "" {
		return Location{}, reject(raw, "path is empty")
	}
	if strings.TrimSpace(raw) != raw {
		return Location{}, reject(raw, "leading or trailing whitespace")
	}
	if strings.IndexFunc(raw, unicode.IsControl) >= 0 {
		return Location{}, reject(raw, "contains control characters")
	}
	if strings.Contains(raw, `\`) {
		return Location{}, reject(raw, "contains backslash")
	}
	if !strings.HasPrefix(raw, Scheme) {
		return Location{}, reject(raw, "missing s3:// scheme")
	}

	bucket, key, _ := strings.Cut(strings.TrimPrefix(raw, Scheme), "/")
	if !bucketPattern.MatchString(bucket) || strings.Contains(bucket, "..") {
		return Location{}, reject(raw, "invalid bucket name "+strconv.Quote(bucket))
	}
	if c != nil && len(c.allowedBuckets) > 0 && !slices.Contains(c.allowedBuckets, bucket) {
		return Location{}, reject(raw, "bucket "+strconv.Quote(bucket)+" is not allowed")
	}

	if err := checkKey(raw, key); err != nil {
		return Location{}, err
	}

	return Location{Bucket: bucket, Key: key}, nil
}

func checkKey(raw, key string) error {
	if key == "" {
		return nil
	}

	decoded, err := url.PathUnescape(key)
	if err != nil {
		return reject(raw, "invalid escape sequence")
	}

	segments := strings.Split(decoded, "/")
	for i, seg := range segments {
		switch seg {
		case "..", ".":
			return reject(raw, "path traversal segment")
		case "":
			// a single trailing slash marks a prefix
			if i != len(segments)-1 {
				return reject(raw, "empty path segment")
			}
		}
	}
	return nil
}
