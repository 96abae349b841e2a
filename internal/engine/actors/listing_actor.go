package actors

import (
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qazimabbas/LostnFound/internal/api"
	"github.com/qazimabbas/LostnFound/internal/assets"
	"github.com/qazimabbas/LostnFound/internal/database"
	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

const listingImageFolder = "items"

// Message types for ListingActor
type (
	CreateListingMsg struct {
		OwnerID     uuid.UUID
		Kind        string
		Title       string
		Category    string
		Location    string
		Description string
		Images      []string // base64 data URIs, at most models.MaxListingImages
	}

	SearchListingsMsg struct {
		Kind      string
		Category  string
		FreeText  string
		DateRange string
		Location  string
	}

	GetListingMsg struct {
		ListingID uuid.UUID
	}

	// UpdateListingMsg carries partial fields; empty strings mean "leave
	// unchanged". A non-empty Images slice replaces all images.
	UpdateListingMsg struct {
		CallerID    uuid.UUID
		ListingID   uuid.UUID
		Kind        string
		Title       string
		Category    string
		Location    string
		Description string
		Images      []string
	}

	DeleteListingMsg struct {
		CallerID  uuid.UUID
		ListingID uuid.UUID
	}

	ListOwnListingsMsg struct {
		OwnerID uuid.UUID
	}
)

// ListingActor owns all listing rules: creation with hosted images, filtered
// search, and owner-gated mutation.
type ListingActor struct {
	store    ListingStore
	accounts AccountStore
	relay    assets.Relay
	metrics  *utils.MetricsCollector
	log      *zap.SugaredLogger
}

func NewListingActor(store ListingStore, accounts AccountStore, relay assets.Relay, metrics *utils.MetricsCollector, log *zap.SugaredLogger) actor.Actor {
	return &ListingActor{
		store:    store,
		accounts: accounts,
		relay:    relay,
		metrics:  metrics,
		log:      log,
	}
}

func (a *ListingActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateListingMsg:
		a.handleCreate(context, msg)
	case *SearchListingsMsg:
		a.handleSearch(context, msg)
	case *GetListingMsg:
		a.handleGet(context, msg)
	case *UpdateListingMsg:
		a.handleUpdate(context, msg)
	case *DeleteListingMsg:
		a.handleDelete(context, msg)
	case *ListOwnListingsMsg:
		a.handleListOwn(context, msg)
	}
}

func (a *ListingActor) handleCreate(context actor.Context, msg *CreateListingMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	kind := models.ListingKind(msg.Kind)
	category := models.Category(msg.Category)
	if !kind.Valid() || !category.Valid() {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Invalid item type or category", nil))
		return
	}
	if len(msg.Images) > models.MaxListingImages {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "At most 3 images are allowed", nil))
		return
	}

	images, err := assets.UploadAll(ctx, a.relay, msg.Images, listingImageFolder)
	if err != nil {
		a.log.Errorw("listing image upload failed", "error", err)
		context.Respond(wrapAssetError(err))
		return
	}

	now := time.Now()
	listing := &models.Listing{
		ID:          uuid.New(),
		Kind:        kind,
		Title:       msg.Title,
		Category:    category,
		Location:    msg.Location,
		Description: msg.Description,
		Images:      images,
		OwnerID:     msg.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.store.SaveListing(ctx, listing); err != nil {
		a.log.Errorw("failed to save listing", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to create item", err))
		return
	}

	a.log.Infow("listing created", "listingId", listing.ID, "type", listing.Kind, "ownerId", listing.OwnerID)
	a.metrics.AddOperationLatency("create_listing", time.Since(startTime))
	context.Respond(api.ListingViewOf(listing, a.contactOwner(ctx, listing.OwnerID)))
}

func (a *ListingActor) handleSearch(context actor.Context, msg *SearchListingsMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	listings, err := a.store.SearchListings(ctx, database.ListingSearch{
		Kind:      msg.Kind,
		Category:  msg.Category,
		FreeText:  msg.FreeText,
		DateRange: msg.DateRange,
		Location:  msg.Location,
	})
	if err != nil {
		a.log.Errorw("listing search failed", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch items", err))
		return
	}

	views, err := a.attachOwners(ctx, listings)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch items", err))
		return
	}

	a.metrics.AddOperationLatency("search_listings", time.Since(startTime))
	context.Respond(views)
}

func (a *ListingActor) handleGet(context actor.Context, msg *GetListingMsg) {
	ctx := stdctx.Background()

	listing, err := a.store.GetListing(ctx, msg.ListingID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewAppError(utils.ErrListingNotFound, "No item found with that ID", nil))
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch item", err))
		return
	}

	var owner *api.ListingOwner
	if account, err := a.accounts.GetAccount(ctx, listing.OwnerID); err == nil {
		owner = api.DetailOwner(account)
	}

	context.Respond(api.ListingViewOf(listing, owner))
}

func (a *ListingActor) handleUpdate(context actor.Context, msg *UpdateListingMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	listing, err := a.store.GetListing(ctx, msg.ListingID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewListingNotFoundError())
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch item", err))
		return
	}

	if listing.OwnerID != msg.CallerID {
		context.Respond(utils.NewForbiddenError("Not authorized to edit this item"))
		return
	}

	if msg.Kind != "" {
		kind := models.ListingKind(msg.Kind)
		if !kind.Valid() {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Invalid item type", nil))
			return
		}
		listing.Kind = kind
	}
	if msg.Category != "" {
		category := models.Category(msg.Category)
		if !category.Valid() {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Invalid category", nil))
			return
		}
		listing.Category = category
	}
	if msg.Title != "" {
		listing.Title = msg.Title
	}
	if msg.Location != "" {
		listing.Location = msg.Location
	}
	if msg.Description != "" {
		listing.Description = msg.Description
	}

	if len(msg.Images) > 0 {
		if len(msg.Images) > models.MaxListingImages {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "At most 3 images are allowed", nil))
			return
		}

		// Old images go first, best-effort; the upload of the replacements
		// is what can fail the update.
		assets.DeleteAll(ctx, a.relay, listing.Images, a.log)

		images, err := assets.UploadAll(ctx, a.relay, msg.Images, listingImageFolder)
		if err != nil {
			a.log.Errorw("listing image replacement failed", "listingId", listing.ID, "error", err)
			context.Respond(wrapAssetError(err))
			return
		}
		listing.Images = images
	}

	listing.UpdatedAt = time.Now()
	if err := a.store.SaveListing(ctx, listing); err != nil {
		a.log.Errorw("failed to save updated listing", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update item", err))
		return
	}

	a.metrics.AddOperationLatency("update_listing", time.Since(startTime))
	context.Respond(api.ListingViewOf(listing, a.contactOwner(ctx, listing.OwnerID)))
}

func (a *ListingActor) handleDelete(context actor.Context, msg *DeleteListingMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	listing, err := a.store.GetListing(ctx, msg.ListingID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewListingNotFoundError())
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch item", err))
		return
	}

	if listing.OwnerID != msg.CallerID {
		context.Respond(utils.NewForbiddenError("Not authorized to delete this item"))
		return
	}

	// Image cleanup is best-effort; the record goes away regardless.
	assets.DeleteAll(ctx, a.relay, listing.Images, a.log)

	if err := a.store.DeleteListing(ctx, listing.ID); err != nil {
		a.log.Errorw("failed to delete listing", "listingId", listing.ID, "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete item", err))
		return
	}

	a.log.Infow("listing deleted", "listingId", listing.ID)
	a.metrics.AddOperationLatency("delete_listing", time.Since(startTime))
	context.Respond(true)
}

func (a *ListingActor) handleListOwn(context actor.Context, msg *ListOwnListingsMsg) {
	ctx := stdctx.Background()

	listings, err := a.store.GetListingsByOwner(ctx, msg.OwnerID, "")
	if err != nil {
		a.log.Errorw("failed to fetch own listings", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch items", err))
		return
	}

	views, err := a.attachOwners(ctx, listings)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch items", err))
		return
	}

	context.Respond(views)
}

// attachOwners builds views with each listing's owner name and email.
func (a *ListingActor) attachOwners(ctx stdctx.Context, listings []*models.Listing) ([]*api.ListingView, error) {
	ownerIDs := make([]uuid.UUID, 0, len(listings))
	seen := make(map[uuid.UUID]bool, len(listings))
	for _, listing := range listings {
		if !seen[listing.OwnerID] {
			seen[listing.OwnerID] = true
			ownerIDs = append(ownerIDs, listing.OwnerID)
		}
	}

	owners, err := a.accounts.GetAccountsByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*api.ListingView, len(listings))
	for i, listing := range listings {
		var owner *api.ListingOwner
		if account, ok := owners[listing.OwnerID]; ok {
			owner = api.ContactOwner(account)
		}
		views[i] = api.ListingViewOf(listing, owner)
	}
	return views, nil
}

func (a *ListingActor) contactOwner(ctx stdctx.Context, ownerID uuid.UUID) *api.ListingOwner {
	account, err := a.accounts.GetAccount(ctx, ownerID)
	if err != nil {
		return nil
	}
	return api.ContactOwner(account)
}

// wrapAssetError passes AppErrors through so an invalid image format stays a
// 400, and wraps anything else as a host failure.
func wrapAssetError(err error) *utils.AppError {
	if appErr, ok := err.(*utils.AppError); ok {
		return appErr
	}
	return utils.NewAppError(utils.ErrAssetHost, "Error handling image uploads", err)
}
