package actors

import (
	"time"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qazimabbas/LostnFound/internal/api"
	"github.com/qazimabbas/LostnFound/internal/models"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

// Message types for ResponseActor
type (
	CreateResponseMsg struct {
		SenderID  uuid.UUID
		ListingID uuid.UUID
		Message   string
	}

	ListSentMsg struct {
		SenderID uuid.UUID
	}

	// ListReceivedMsg returns responses on the owner's listings of the given
	// kind: lost for the responses view, found for the claims view.
	ListReceivedMsg struct {
		OwnerID uuid.UUID
		Kind    models.ListingKind
	}

	UpdateResponseStatusMsg struct {
		CallerID   uuid.UUID
		ResponseID uuid.UUID
		Status     string
	}

	DeleteResponseMsg struct {
		CallerID   uuid.UUID
		ResponseID uuid.UUID
	}
)

// ResponseActor owns all response rules: the single-active-response check,
// receiver-only status mutation, per-party soft deletion and the final purge.
type ResponseActor struct {
	store    ResponseStore
	listings ListingStore
	accounts AccountStore
	metrics  *utils.MetricsCollector
	log      *zap.SugaredLogger
}

func NewResponseActor(store ResponseStore, listings ListingStore, accounts AccountStore, metrics *utils.MetricsCollector, log *zap.SugaredLogger) actor.Actor {
	return &ResponseActor{
		store:    store,
		listings: listings,
		accounts: accounts,
		metrics:  metrics,
		log:      log,
	}
}

func (a *ResponseActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateResponseMsg:
		a.handleCreate(context, msg)
	case *ListSentMsg:
		a.handleListSent(context, msg)
	case *ListReceivedMsg:
		a.handleListReceived(context, msg)
	case *UpdateResponseStatusMsg:
		a.handleUpdateStatus(context, msg)
	case *DeleteResponseMsg:
		a.handleDelete(context, msg)
	}
}

func (a *ResponseActor) handleCreate(context actor.Context, msg *CreateResponseMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	listing, err := a.listings.GetListing(ctx, msg.ListingID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewListingNotFoundError())
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch item", err))
		return
	}

	if listing.OwnerID == msg.SenderID {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput,
			"You cannot respond to your own item", nil))
		return
	}

	existing, err := a.store.GetActiveResponse(ctx, msg.ListingID, msg.SenderID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to check existing responses", err))
		return
	}
	if existing != nil {
		if existing.Status == models.StatusRejected {
			context.Respond(&utils.AppError{
				Code:    utils.ErrInvalidInput,
				Message: "You have a rejected response for this item. Please delete it before submitting a new one.",
				Ref:     existing.ID.String(),
			})
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDuplicate,
			"You already have an active response for this item", nil))
		return
	}

	now := time.Now()
	response := &models.Response{
		ID:         uuid.New(),
		ListingID:  listing.ID,
		SenderID:   msg.SenderID,
		ReceiverID: listing.OwnerID, // captured now, never re-derived
		Message:    msg.Message,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := a.store.SaveResponse(ctx, response); err != nil {
		a.log.Errorw("failed to save response", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to create response", err))
		return
	}

	view := api.ResponseViewOf(response)
	view.Listing = api.SummaryOf(listing)
	if sender, err := a.accounts.GetAccount(ctx, msg.SenderID); err == nil {
		view.Sender = api.ProfileOf(sender)
	}

	a.log.Infow("response created", "responseId", response.ID, "listingId", listing.ID, "senderId", msg.SenderID)
	a.metrics.AddOperationLatency("create_response", time.Since(startTime))
	context.Respond(view)
}

func (a *ResponseActor) handleListSent(context actor.Context, msg *ListSentMsg) {
	ctx := stdctx.Background()

	responses, err := a.store.GetResponsesBySender(ctx, msg.SenderID)
	if err != nil {
		a.log.Errorw("failed to fetch sent responses", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch responses", err))
		return
	}

	receiverIDs := make([]uuid.UUID, 0, len(responses))
	for _, response := range responses {
		receiverIDs = append(receiverIDs, response.ReceiverID)
	}
	receivers, err := a.accounts.GetAccountsByIDs(ctx, receiverIDs)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch responses", err))
		return
	}

	views := make([]*api.ResponseView, len(responses))
	for i, response := range responses {
		view := api.ResponseViewOf(response)
		if listing, err := a.listings.GetListing(ctx, response.ListingID); err == nil {
			view.Listing = api.SummaryOf(listing)
		}
		if receiver, ok := receivers[response.ReceiverID]; ok {
			view.Receiver = api.ProfileOf(receiver)
		}
		views[i] = view
	}

	context.Respond(views)
}

func (a *ResponseActor) handleListReceived(context actor.Context, msg *ListReceivedMsg) {
	ctx := stdctx.Background()

	listings, err := a.listings.GetListingsByOwner(ctx, msg.OwnerID, msg.Kind)
	if err != nil {
		a.log.Errorw("failed to fetch owner listings", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch responses", err))
		return
	}

	listingByID := make(map[uuid.UUID]*models.Listing, len(listings))
	listingIDs := make([]uuid.UUID, len(listings))
	for i, listing := range listings {
		listingByID[listing.ID] = listing
		listingIDs[i] = listing.ID
	}

	responses, err := a.store.GetResponsesForListings(ctx, listingIDs)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch responses", err))
		return
	}

	senderIDs := make([]uuid.UUID, 0, len(responses))
	for _, response := range responses {
		senderIDs = append(senderIDs, response.SenderID)
	}
	senders, err := a.accounts.GetAccountsByIDs(ctx, senderIDs)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch responses", err))
		return
	}

	views := make([]*api.ResponseView, len(responses))
	for i, response := range responses {
		view := api.ResponseViewOf(response)
		if listing, ok := listingByID[response.ListingID]; ok {
			view.Listing = api.SummaryOf(listing)
		}
		if sender, ok := senders[response.SenderID]; ok {
			view.Sender = api.ProfileOf(sender)
		}
		views[i] = view
	}

	context.Respond(views)
}

func (a *ResponseActor) handleUpdateStatus(context actor.Context, msg *UpdateResponseStatusMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	status := models.ResponseStatus(msg.Status)
	if !status.Valid() {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Invalid status", nil))
		return
	}

	response, err := a.store.GetResponse(ctx, msg.ResponseID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewResponseNotFoundError())
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch response", err))
		return
	}

	if response.ReceiverID != msg.CallerID {
		context.Respond(utils.NewForbiddenError("Not authorized"))
		return
	}

	// Any status may move to any other; there is no transition graph.
	if err := a.store.UpdateResponseStatus(ctx, response.ID, status); err != nil {
		a.log.Errorw("failed to update response status", "responseId", response.ID, "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update response", err))
		return
	}

	response.Status = status
	response.UpdatedAt = time.Now()

	a.metrics.AddOperationLatency("update_response_status", time.Since(startTime))
	context.Respond(api.ResponseViewOf(response))
}

func (a *ResponseActor) handleDelete(context actor.Context, msg *DeleteResponseMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	response, err := a.store.GetResponse(ctx, msg.ResponseID)
	if err != nil {
		if utils.IsNotFound(err) {
			context.Respond(utils.NewResponseNotFoundError())
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch response", err))
		return
	}

	isSender := response.SenderID == msg.CallerID
	isReceiver := response.ReceiverID == msg.CallerID
	if !isSender && !isReceiver {
		context.Respond(utils.NewForbiddenError("Not authorized"))
		return
	}

	if err := a.store.SetDeletionFlag(ctx, response.ID, isSender); err != nil {
		a.log.Errorw("failed to set deletion flag", "responseId", response.ID, "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete response", err))
		return
	}

	// Purge once both parties have deleted.
	otherAlreadyDeleted := (isSender && response.DeletedByReceiver) || (isReceiver && response.DeletedBySender)
	if otherAlreadyDeleted {
		if err := a.store.DeleteResponse(ctx, response.ID); err != nil {
			a.log.Errorw("failed to purge response", "responseId", response.ID, "error", err)
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete response", err))
			return
		}
		a.log.Infow("response purged", "responseId", response.ID)
	}

	a.metrics.AddOperationLatency("delete_response", time.Since(startTime))
	context.Respond(true)
}
