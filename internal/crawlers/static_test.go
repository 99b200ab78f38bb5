package crawlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/RecoveryAshes/FetchDyson/internal/models"
	"github.com/andybalholm/brotli"
)

const testPageHTML = `<html><head><title>Dyson’s Lair | Dyson's Dodecahedron</title></head>
<body>
<img class="size-full" src="/maps/lair.png?w=1000">
<img class="size-medium" src="/maps/thumb.png">
<img class="aligncenter size-full" src="https://cdn.example/patreon-supported-banner.png">
<img class="size-full">
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPageHTML))
	})
	mux.HandleFunc("/brotli", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		_, _ = bw.Write([]byte(testPageHTML))
		_ = bw.Close()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticEngine_Open(t *testing.T) {
	srv := newTestServer(t)
	engine := NewStaticEngine(models.BrowserConfig{UserAgent: "fetchdyson-test"}, nil)
	defer engine.Close()

	for _, path := range []string{"/page", "/brotli"} {
		t.Run(path, func(t *testing.T) {
			page, err := engine.Open(context.Background(), srv.URL+path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer page.Close()

			title, err := page.Title()
			if err != nil {
				t.Fatalf("Title() error = %v", err)
			}
			if title != "Dyson’s Lair | Dyson's Dodecahedron" {
				t.Errorf("Title() = %q", title)
			}

			srcs, err := page.ImageSources("img.size-full")
			if err != nil {
				t.Fatalf("ImageSources() error = %v", err)
			}
			want := []string{
				srv.URL + "/maps/lair.png?w=1000",
				"https://cdn.example/patreon-supported-banner.png",
			}
			if !reflect.DeepEqual(srcs, want) {
				t.Errorf("ImageSources() = %v, want %v", srcs, want)
			}
		})
	}
}

func TestStaticEngine_OpenNotFound(t *testing.T) {
	srv := newTestServer(t)
	engine := NewStaticEngine(models.BrowserConfig{}, nil)

	if _, err := engine.Open(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("404页面应返回错误")
	}
}

func TestStaticEngine_OpenCancelled(t *testing.T) {
	srv := newTestServer(t)
	engine := NewStaticEngine(models.BrowserConfig{}, srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Open(ctx, srv.URL+"/page"); err == nil {
		t.Error("已取消的context应返回错误")
	}
}

func TestDecompressResponse(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, _ = bw.Write([]byte("hello"))
	_ = bw.Close()

	tests := []struct {
		name     string
		encoding string
		body     []byte
		want     string
		wantErr  bool
	}{
		{"无压缩", "", []byte("hello"), "hello", false},
		{"brotli", "br", buf.Bytes(), "hello", false},
		{"大写编码", " BR ", buf.Bytes(), "hello", false},
		{"gzip已由后端解压", "gzip", []byte("hello"), "hello", false},
		{"未知编码原样返回", "zstd", []byte("raw"), "raw", false},
		{"损坏的brotli", "br", []byte("not brotli"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decompressResponse(tt.encoding, tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decompressResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("decompressResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}
