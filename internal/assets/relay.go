// Package assets talks to the external image host. Uploads return both the
// public URL and the host's opaque asset identifier; the identifier is stored
// and later passed to Delete verbatim, so nothing in this codebase ever
// parses an asset URL.
package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

// Relay uploads and deletes hosted images.
type Relay interface {
	Upload(ctx context.Context, base64Image string, folder string) (models.Image, error)
	Delete(ctx context.Context, assetID string) error
}

// CloudinaryRelay implements Relay against the Cloudinary upload API using
// signed requests.
type CloudinaryRelay struct {
	client    *resty.Client
	apiKey    string
	apiSecret string
	log       *zap.SugaredLogger
}

// NewCloudinaryRelay builds a relay for the given cloud.
func NewCloudinaryRelay(cloudName, apiKey, apiSecret string, log *zap.SugaredLogger) *CloudinaryRelay {
	client := resty.New().
		SetBaseURL("https://api.cloudinary.com/v1_1/" + cloudName).
		SetTimeout(30 * time.Second)

	return &CloudinaryRelay{
		client:    client,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		log:       log,
	}
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type destroyResult struct {
	Result string `json:"result"`
}

// Upload sends a base64 data-URI image to the host and returns its hosted
// URL plus asset identifier.
func (r *CloudinaryRelay) Upload(ctx context.Context, base64Image string, folder string) (models.Image, error) {
	if !strings.HasPrefix(base64Image, "data:image") {
		return models.Image{}, utils.NewAppError(utils.ErrInvalidInput,
			"Invalid image format. Please provide a valid base64 image string", nil)
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if folder != "" {
		params["folder"] = folder
	}
	signature := signParams(params, r.apiSecret)

	form := map[string]string{
		"file":      base64Image,
		"api_key":   r.apiKey,
		"signature": signature,
	}
	for k, v := range params {
		form[k] = v
	}

	var result uploadResult
	resp, err := r.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		Post("/image/upload")
	if err != nil {
		return models.Image{}, utils.NewAppError(utils.ErrAssetHost, "Image upload failed", err)
	}
	if resp.IsError() {
		return models.Image{}, utils.NewAppError(utils.ErrAssetHost,
			fmt.Sprintf("Image upload failed with status %d", resp.StatusCode()), nil)
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return models.Image{}, utils.NewAppError(utils.ErrAssetHost, "Image host returned an incomplete result", nil)
	}

	return models.Image{URL: result.SecureURL, AssetID: result.PublicID}, nil
}

// Delete removes an asset by its stored identifier. A "not found" answer from
// the host is treated as success.
func (r *CloudinaryRelay) Delete(ctx context.Context, assetID string) error {
	params := map[string]string{
		"public_id": assetID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	signature := signParams(params, r.apiSecret)

	form := map[string]string{
		"api_key":   r.apiKey,
		"signature": signature,
	}
	for k, v := range params {
		form[k] = v
	}

	var result destroyResult
	resp, err := r.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		Post("/image/destroy")
	if err != nil {
		return utils.NewAppError(utils.ErrAssetHost, "Image deletion failed", err)
	}
	if resp.IsError() {
		return utils.NewAppError(utils.ErrAssetHost,
			fmt.Sprintf("Image deletion failed with status %d", resp.StatusCode()), nil)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return utils.NewAppError(utils.ErrAssetHost,
			fmt.Sprintf("Image host refused deletion: %s", result.Result), nil)
	}

	return nil
}

// signParams produces the request signature the host expects: the sha1 hex of
// the sorted key=value pairs joined by & with the secret appended.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// UploadAll uploads a batch concurrently, preserving order. If any upload
// fails the whole batch fails; already-uploaded images are not retracted.
func UploadAll(ctx context.Context, relay Relay, base64Images []string, folder string) ([]models.Image, error) {
	if len(base64Images) == 0 {
		return []models.Image{}, nil
	}

	images := make([]models.Image, len(base64Images))
	g, ctx := errgroup.WithContext(ctx)
	for i, data := range base64Images {
		g.Go(func() error {
			img, err := relay.Upload(ctx, data, folder)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return images, nil
}

// DeleteAll removes a batch of assets concurrently, best-effort: failures are
// logged and never propagated.
func DeleteAll(ctx context.Context, relay Relay, images []models.Image, log *zap.SugaredLogger) {
	var g errgroup.Group
	for _, img := range images {
		g.Go(func() error {
			if err := relay.Delete(ctx, img.AssetID); err != nil {
				log.Warnw("failed to delete hosted image", "assetId", img.AssetID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
