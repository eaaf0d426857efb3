package file_test

import (
	"path/filepath"
	"testing"

	"code.hybscloud.com/avio"
	"code.hybscloud.com/avio/protocols/file"
)

func TestFileDescriptorOpenWriteSeekRead(t *testing.T) {
	r := &avio.Registry{}
	if err := r.Register(file.Descriptor); err != nil {
		t.Fatalf("register: %v", err)
	}
	path := filepath.Join(t.TempDir(), "f.bin")

	wctx, err := r.Alloc(path, avio.FlagWrite, nil, nil)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if err := wctx.Connect(nil); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := wctx.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := wctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rctx, err := r.Alloc(path, avio.FlagRead, nil, nil)
	if err != nil {
		t.Fatalf("Alloc read: %v", err)
	}
	if err := rctx.Connect(nil); err != nil {
		t.Fatalf("Connect read: %v", err)
	}
	defer rctx.Close()

	size, err := rctx.Size()
	if err != nil || size != 10 {
		t.Fatalf("Size = (%d, %v), want (10, nil)", size, err)
	}
	if _, err := rctx.Seek(5, avio.SeekSet); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, 5)
	if _, err := rctx.ReadFull(got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(got) != "56789" {
		t.Fatalf("got %q, want %q", got, "56789")
	}
}

func TestFileDescriptorCloseIsIdempotent(t *testing.T) {
	r := &avio.Registry{}
	r.Register(file.Descriptor)
	path := filepath.Join(t.TempDir(), "f2.bin")

	ctx, err := r.Alloc(path, avio.FlagWrite, nil, nil)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if err := ctx.Connect(nil); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}
