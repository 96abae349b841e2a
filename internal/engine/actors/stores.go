package actors

import (
	"context"

	"github.com/google/uuid"

	"github.com/qazimabbas/LostnFound/internal/database"
	"github.com/qazimabbas/LostnFound/internal/models"
)

// The actors accept narrow store interfaces, all satisfied by
// *database.MongoDB, so tests can run them over in-memory fakes.

type AccountStore interface {
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	GetAccountsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Account, error)
}

type ListingStore interface {
	SaveListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	SearchListings(ctx context.Context, query database.ListingSearch) ([]*models.Listing, error)
	GetListingsByOwner(ctx context.Context, ownerID uuid.UUID, kind models.ListingKind) ([]*models.Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID) error
}

type ResponseStore interface {
	SaveResponse(ctx context.Context, response *models.Response) error
	GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error)
	GetActiveResponse(ctx context.Context, listingID uuid.UUID, senderID uuid.UUID) (*models.Response, error)
	GetResponsesBySender(ctx context.Context, senderID uuid.UUID) ([]*models.Response, error)
	GetResponsesForListings(ctx context.Context, listingIDs []uuid.UUID) ([]*models.Response, error)
	UpdateResponseStatus(ctx context.Context, id uuid.UUID, status models.ResponseStatus) error
	SetDeletionFlag(ctx context.Context, id uuid.UUID, bySender bool) error
	DeleteResponse(ctx context.Context, id uuid.UUID) error
}
