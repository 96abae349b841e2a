package actors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qazimabbas/LostnFound/internal/database"
	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

// In-memory stores mirroring the Mongo repositories' query semantics, so the
// actors can be exercised without a database.

type memAccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: make(map[uuid.UUID]*models.Account)}
}

func (s *memAccountStore) SaveAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

func (s *memAccountStore) GetAccount(_ context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[id]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, utils.NewAccountNotFoundError()
}

func (s *memAccountStore) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, utils.NewAccountNotFoundError()
}

func (s *memAccountStore) GetAccountByUsername(_ context.Context, username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Username == username {
			copied := *account
			return &copied, nil
		}
	}
	return nil, utils.NewAccountNotFoundError()
}

func (s *memAccountStore) GetAccountsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[uuid.UUID]*models.Account, len(ids))
	for _, id := range ids {
		if account, ok := s.accounts[id]; ok {
			copied := *account
			result[id] = &copied
		}
	}
	return result, nil
}

type memListingStore struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*models.Listing
}

func newMemListingStore() *memListingStore {
	return &memListingStore{listings: make(map[uuid.UUID]*models.Listing)}
}

func (s *memListingStore) SaveListing(_ context.Context, listing *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *listing
	s.listings[listing.ID] = &copied
	return nil
}

func (s *memListingStore) GetListing(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if listing, ok := s.listings[id]; ok {
		copied := *listing
		return &copied, nil
	}
	return nil, utils.NewListingNotFoundError()
}

func (s *memListingStore) SearchListings(_ context.Context, query database.ListingSearch) ([]*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	matched := []*models.Listing{}
	for _, listing := range s.listings {
		if query.Kind != "" && string(listing.Kind) != query.Kind {
			continue
		}
		if query.Category != "" && query.Category != "all" && string(listing.Category) != query.Category {
			continue
		}
		if query.Location != "" && !strings.Contains(strings.ToLower(listing.Location), strings.ToLower(query.Location)) {
			continue
		}
		if query.FreeText != "" {
			needle := strings.ToLower(query.FreeText)
			if !strings.Contains(strings.ToLower(listing.Title), needle) &&
				!strings.Contains(strings.ToLower(listing.Description), needle) {
				continue
			}
		}
		switch query.DateRange {
		case "today":
			year, month, day := now.Date()
			start := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
			if listing.CreatedAt.Before(start) {
				continue
			}
		case "week":
			if listing.CreatedAt.Before(now.AddDate(0, 0, -7)) {
				continue
			}
		case "month":
			if listing.CreatedAt.Before(now.AddDate(0, -1, 0)) {
				continue
			}
		}
		copied := *listing
		matched = append(matched, &copied)
	}

	sortNewestFirst(matched)
	return matched, nil
}

func (s *memListingStore) GetListingsByOwner(_ context.Context, ownerID uuid.UUID, kind models.ListingKind) ([]*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []*models.Listing{}
	for _, listing := range s.listings {
		if listing.OwnerID != ownerID {
			continue
		}
		if kind != "" && listing.Kind != kind {
			continue
		}
		copied := *listing
		matched = append(matched, &copied)
	}

	sortNewestFirst(matched)
	return matched, nil
}

func (s *memListingStore) DeleteListing(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return utils.NewListingNotFoundError()
	}
	delete(s.listings, id)
	return nil
}

func sortNewestFirst(listings []*models.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}

type memResponseStore struct {
	mu        sync.Mutex
	responses map[uuid.UUID]*models.Response
}

func newMemResponseStore() *memResponseStore {
	return &memResponseStore{responses: make(map[uuid.UUID]*models.Response)}
}

func (s *memResponseStore) SaveResponse(_ context.Context, response *models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *response
	s.responses[response.ID] = &copied
	return nil
}

func (s *memResponseStore) GetResponse(_ context.Context, id uuid.UUID) (*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if response, ok := s.responses[id]; ok {
		copied := *response
		return &copied, nil
	}
	return nil, utils.NewResponseNotFoundError()
}

func (s *memResponseStore) GetActiveResponse(_ context.Context, listingID uuid.UUID, senderID uuid.UUID) (*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, response := range s.responses {
		if response.ListingID == listingID && response.SenderID == senderID && !response.DeletedBySender {
			copied := *response
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memResponseStore) GetResponsesBySender(_ context.Context, senderID uuid.UUID) ([]*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []*models.Response{}
	for _, response := range s.responses {
		if response.SenderID == senderID && !response.DeletedBySender {
			copied := *response
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *memResponseStore) GetResponsesForListings(_ context.Context, listingIDs []uuid.UUID) ([]*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(listingIDs))
	for _, id := range listingIDs {
		wanted[id] = true
	}
	matched := []*models.Response{}
	for _, response := range s.responses {
		if wanted[response.ListingID] && !response.DeletedByReceiver {
			copied := *response
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *memResponseStore) UpdateResponseStatus(_ context.Context, id uuid.UUID, status models.ResponseStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	response, ok := s.responses[id]
	if !ok {
		return utils.NewResponseNotFoundError()
	}
	response.Status = status
	response.UpdatedAt = time.Now()
	return nil
}

func (s *memResponseStore) SetDeletionFlag(_ context.Context, id uuid.UUID, bySender bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	response, ok := s.responses[id]
	if !ok {
		return utils.NewResponseNotFoundError()
	}
	if bySender {
		response.DeletedBySender = true
	} else {
		response.DeletedByReceiver = true
	}
	return nil
}

func (s *memResponseStore) DeleteResponse(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.responses[id]; !ok {
		return utils.NewResponseNotFoundError()
	}
	delete(s.responses, id)
	return nil
}

// fakeRelay records uploads and deletions. It enforces the same data-URI
// prefix rule as the real relay.
type fakeRelay struct {
	mu         sync.Mutex
	uploads    []string
	deletions  []string
	failUpload bool
	failDelete bool
	counter    int
}

func (r *fakeRelay) Upload(_ context.Context, base64Image string, folder string) (models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpload {
		return models.Image{}, utils.NewAppError(utils.ErrAssetHost, "Image upload failed", nil)
	}
	if !strings.HasPrefix(base64Image, "data:image") {
		return models.Image{}, utils.NewAppError(utils.ErrInvalidInput,
			"Invalid image format. Please provide a valid base64 image string", nil)
	}
	r.counter++
	assetID := fmt.Sprintf("%s/asset-%d", folder, r.counter)
	r.uploads = append(r.uploads, base64Image)
	return models.Image{
		URL:     fmt.Sprintf("https://img.test/%s.jpg", assetID),
		AssetID: assetID,
	}, nil
}

func (r *fakeRelay) Delete(_ context.Context, assetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletions = append(r.deletions, assetID)
	if r.failDelete {
		return utils.NewAppError(utils.ErrAssetHost, "Image deletion failed", nil)
	}
	return nil
}

func (r *fakeRelay) deletedAssets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.deletions...)
}

// ask sends a message to the actor and waits for its reply.
func ask(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	result, err := system.Root.RequestFuture(pid, msg, 10*time.Second).Result()
	require.NoError(t, err)
	return result
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
