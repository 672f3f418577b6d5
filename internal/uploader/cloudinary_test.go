package uploader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSendsDataURIAndParsesSecureURL(t *testing.T) {
	var gotFile, gotPublicID, gotFolder, gotPreset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotFile = r.PostFormValue("file")
		gotPublicID = r.PostFormValue("public_id")
		gotFolder = r.PostFormValue("folder")
		gotPreset = r.PostFormValue("upload_preset")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://assets.example/recycle_market_products/x.png"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "unsigned", "recycle_market_products")
	got, err := c.Upload(context.Background(), Image{
		AccountID: 12,
		Filename:  "old chair.png",
		MimeType:  "image/png",
		Data:      []byte{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://assets.example/recycle_market_products/x.png", got)

	assert.True(t, strings.HasPrefix(gotFile, "data:image/png;base64,"), "file=%q", gotFile)
	assert.Regexp(t, regexp.MustCompile(`^12-\d+-old chair$`), gotPublicID)
	assert.Equal(t, "recycle_market_products", gotFolder)
	assert.Equal(t, "unsigned", gotPreset)
}

func TestUploadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rejected"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, "", "f")
	_, err := c.Upload(context.Background(), Image{Filename: "a.jpg", MimeType: "image/jpeg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload failed")
}

func TestUploadMissingSecureURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", "f")
	_, err := c.Upload(context.Background(), Image{Filename: "a.jpg", MimeType: "image/jpeg"})
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "photo", baseName("photo.jpg"))
	assert.Equal(t, "photo", baseName("photo.tar.gz"))
	assert.Equal(t, "photo", baseName("dir/photo.png"))
	assert.Equal(t, "photo", baseName(`C:\tmp\photo.png`))
	assert.Equal(t, "noext", baseName("noext"))
}
