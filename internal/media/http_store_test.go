package media

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPStore_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		require.Equal(t, "zmarties-products", r.FormValue("folder"))
		require.Equal(t, "image", r.FormValue("resource_type"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://cdn.example.com/zmarties-products/abc.jpg"}`))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "zmarties-products", time.Second)

	url, err := store.Upload(context.Background(), []byte("jpeg-bytes"), KindImage)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/zmarties-products/abc.jpg", url)
}

func TestHTTPStore_Upload_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"unsupported format"}}`))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, "zmarties-products", time.Second)

	_, err := store.Upload(context.Background(), []byte("bad"), KindImage)
	require.Error(t, err)
	require.ErrorContains(t, err, "unsupported format")
}

func TestHTTPStore_Upload_VideoSizeCap(t *testing.T) {
	store := NewHTTPStore("http://unreachable.test", "zmarties-products", time.Second)

	oversized := bytes.Repeat([]byte{0xFF}, MaxVideoSizeBytes+1)
	_, err := store.Upload(context.Background(), oversized, KindVideo)
	require.ErrorIs(t, err, ErrTooLarge)
}
