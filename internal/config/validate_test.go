package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidBucketName(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
		valid  bool
	}{
		{name: "simple", bucket: "my-data-lake", valid: true},
		{name: "with dots", bucket: "my.data.lake", valid: true},
		{name: "minimum length", bucket: "abc", valid: true},
		{name: "too short", bucket: "ab", valid: false},
		{name: "too long", bucket: strings.Repeat("a", 64), valid: false},
		{name: "uppercase", bucket: "MyBucket", valid: false},
		{name: "underscore", bucket: "my_bucket", valid: false},
		{name: "leading hyphen", bucket: "-bucket", valid: false},
		{name: "trailing hyphen", bucket: "bucket-", valid: false},
		{name: "consecutive dots", bucket: "my..bucket", valid: false},
		{name: "dot adjacent to hyphen", bucket: "my.-bucket", valid: false},
		{name: "hyphen adjacent to dot", bucket: "my-.bucket", valid: false},
		{name: "ip address", bucket: "192.168.1.1", valid: false},
		{name: "empty", bucket: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidBucketName(tt.bucket))
		})
	}
}

func TestValidRegion(t *testing.T) {
	tests := []struct {
		region string
		valid  bool
	}{
		{region: "us-east-1", valid: true},
		{region: "eu-west-2", valid: true},
		{region: "ap-southeast-2", valid: true},
		{region: "useast1", valid: false},
		{region: "us-east", valid: false},
		{region: "US-EAST-1", valid: false},
		{region: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidRegion(tt.region))
		})
	}
}

func TestValidDatabaseName(t *testing.T) {
	tests := []struct {
		name  string
		db    string
		valid bool
	}{
		{name: "simple", db: "analytics_db", valid: true},
		{name: "mixed case", db: "AnalyticsDB", valid: true},
		{name: "digits", db: "db2024", valid: true},
		{name: "hyphen", db: "analytics-db", valid: false},
		{name: "space", db: "analytics db", valid: false},
		{name: "empty", db: "", valid: false},
		{name: "too long", db: strings.Repeat("a", 256), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidDatabaseName(tt.db))
		})
	}
}

func TestValidPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		valid  bool
	}{
		{name: "simple", prefix: "raw/", valid: true},
		{name: "nested", prefix: "data/raw/", valid: true},
		{name: "no trailing slash", prefix: "raw", valid: false},
		{name: "invalid characters", prefix: "raw data/", valid: false},
		{name: "empty", prefix: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidPrefix(tt.prefix))
		})
	}
}

func TestValidARN(t *testing.T) {
	tests := []struct {
		name  string
		arn   string
		valid bool
	}{
		{name: "role arn", arn: "arn:aws:iam::123456789012:role/my-role", valid: true},
		{name: "kms key arn", arn: "arn:aws:kms:us-east-1:123456789012:key/abc", valid: true},
		{name: "gov partition", arn: "arn:aws-us-gov:iam::123456789012:role/my-role", valid: true},
		{name: "missing account", arn: "arn:aws:iam:::role/my-role", valid: false},
		{name: "short account", arn: "arn:aws:iam::1234:role/my-role", valid: false},
		{name: "not an arn", arn: "role/my-role", valid: false},
		{name: "empty", arn: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidARN(tt.arn))
		})
	}
}

func TestValidTags(t *testing.T) {
	longKey := strings.Repeat("k", 129)
	longValue := strings.Repeat("v", 257)

	manyTags := make(map[string]string, 51)
	for i := 0; i < 51; i++ {
		manyTags[strings.Repeat("x", i+1)] = "v"
	}

	tests := []struct {
		name  string
		tags  map[string]string
		valid bool
	}{
		{name: "nil", tags: nil, valid: true},
		{name: "simple", tags: map[string]string{"Env": "prod"}, valid: true},
		{name: "empty key", tags: map[string]string{"": "v"}, valid: false},
		{name: "long key", tags: map[string]string{longKey: "v"}, valid: false},
		{name: "long value", tags: map[string]string{"k": longValue}, valid: false},
		{name: "too many tags", tags: manyTags, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidTags(tt.tags))
		})
	}
}
