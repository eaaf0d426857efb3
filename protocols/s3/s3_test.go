package s3

import (
	"errors"
	"testing"

	"code.hybscloud.com/avio"
)

func TestSplitBucketKey(t *testing.T) {
	tests := []struct {
		filename   string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"s3://my-bucket/path/to/object.bin", "my-bucket", "path/to/object.bin", false},
		{"s3://bucket/key", "bucket", "key", false},
		{"s3://bucket-only", "", "", true},
	}
	for _, tt := range tests {
		bucket, key, err := splitBucketKey(tt.filename)
		if tt.wantErr {
			if !errors.Is(err, avio.ErrInvalid) {
				t.Errorf("splitBucketKey(%q) err = %v, want ErrInvalid", tt.filename, err)
			}
			continue
		}
		if err != nil || bucket != tt.wantBucket || key != tt.wantKey {
			t.Errorf("splitBucketKey(%q) = (%q, %q, %v), want (%q, %q, nil)", tt.filename, bucket, key, err, tt.wantBucket, tt.wantKey)
		}
	}
}

func TestOptionSchemaRegion(t *testing.T) {
	var sch optionSchema
	priv := &privData{}
	if err := sch.Set(priv, "region", "us-west-2"); err != nil {
		t.Fatalf("Set region: %v", err)
	}
	if priv.region != "us-west-2" {
		t.Fatalf("region = %q, want us-west-2", priv.region)
	}
	if err := sch.Set(priv, "bogus", "x"); err == nil {
		t.Fatal("Set with unknown key should error")
	}
}
