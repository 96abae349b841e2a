package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

func newTestRelay(t *testing.T, handler http.HandlerFunc) *CloudinaryRelay {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	relay := NewCloudinaryRelay("test-cloud", "key-123", "secret-456", zap.NewNop().Sugar())
	relay.client.SetBaseURL(srv.URL)
	return relay
}

func TestUploadSignsRequest(t *testing.T) {
	var gotForm map[string]string
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/image/upload", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"file":      r.PostFormValue("file"),
			"api_key":   r.PostFormValue("api_key"),
			"folder":    r.PostFormValue("folder"),
			"timestamp": r.PostFormValue("timestamp"),
			"signature": r.PostFormValue("signature"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://res.test/img.jpg","public_id":"items/abc"}`))
	})

	img, err := relay.Upload(context.Background(), "data:image/png;base64,AAAA", "items")
	require.NoError(t, err)
	assert.Equal(t, "https://res.test/img.jpg", img.URL)
	assert.Equal(t, "items/abc", img.AssetID)

	assert.Equal(t, "data:image/png;base64,AAAA", gotForm["file"])
	assert.Equal(t, "key-123", gotForm["api_key"])
	assert.Equal(t, "items", gotForm["folder"])

	// The signature covers the sorted signed params, not the file or api key.
	expected := signParams(map[string]string{
		"folder":    gotForm["folder"],
		"timestamp": gotForm["timestamp"],
	}, "secret-456")
	assert.Equal(t, expected, gotForm["signature"])
}

func TestUploadRejectsNonDataURI(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid payload")
	})

	_, err := relay.Upload(context.Background(), "https://example.com/img.png", "items")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestUploadHostError(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := relay.Upload(context.Background(), "data:image/png;base64,AAAA", "items")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrAssetHost))
}

func TestUploadIncompleteResult(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://res.test/img.jpg"}`))
	})

	_, err := relay.Upload(context.Background(), "data:image/png;base64,AAAA", "items")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrAssetHost))
}

func TestDelete(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/image/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "items/abc", r.PostFormValue("public_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"ok"}`))
	})

	require.NoError(t, relay.Delete(context.Background(), "items/abc"))
}

func TestDeleteNotFoundIsSuccess(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"not found"}`))
	})

	assert.NoError(t, relay.Delete(context.Background(), "items/gone"))
}

func TestDeleteRefused(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"error"}`))
	})

	err := relay.Delete(context.Background(), "items/abc")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrAssetHost))
}

func TestSignParamsSortsKeys(t *testing.T) {
	// sha1 hex of "folder=items&timestamp=100secret"
	sig := signParams(map[string]string{"timestamp": "100", "folder": "items"}, "secret")
	again := signParams(map[string]string{"folder": "items", "timestamp": "100"}, "secret")
	assert.Equal(t, sig, again)
	assert.Len(t, sig, 40)
}

func TestUploadAllPreservesOrder(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		file := r.PostFormValue("file")
		// Echo the payload tail back as the public id.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://res.test/` + file[len("data:image/png;base64,"):] + `.jpg","public_id":"` + file[len("data:image/png;base64,"):] + `"}`))
	})

	images, err := UploadAll(context.Background(), relay, []string{
		"data:image/png;base64,first",
		"data:image/png;base64,second",
		"data:image/png;base64,third",
	}, "items")
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "first", images[0].AssetID)
	assert.Equal(t, "second", images[1].AssetID)
	assert.Equal(t, "third", images[2].AssetID)
}

func TestUploadAllEmptyBatch(t *testing.T) {
	images, err := UploadAll(context.Background(), nil, nil, "items")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestUploadAllFailsWholeBatch(t *testing.T) {
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := UploadAll(context.Background(), relay, []string{
		"data:image/png;base64,first",
		"data:image/png;base64,second",
	}, "items")
	require.Error(t, err)
}

func TestDeleteAllBestEffort(t *testing.T) {
	var calls atomic.Int32
	relay := newTestRelay(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Failures are swallowed; every asset is still attempted.
	DeleteAll(context.Background(), relay, []models.Image{
		{URL: "https://res.test/a.jpg", AssetID: "a"},
		{URL: "https://res.test/b.jpg", AssetID: "b"},
	}, zap.NewNop().Sugar())
	assert.Equal(t, int32(2), calls.Load())
}
