package engine

import (
	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"github.com/qazimabbas/LostnFound/internal/assets"
	"github.com/qazimabbas/LostnFound/internal/engine/actors"
	"github.com/qazimabbas/LostnFound/internal/utils"
)

// Engine spawns one actor per store and hands out their PIDs. All domain
// operations flow through these three actors.
type Engine struct {
	accountActor  *actor.PID
	listingActor  *actor.PID
	responseActor *actor.PID
}

func NewEngine(
	system *actor.ActorSystem,
	accountStore actors.AccountStore,
	listingStore actors.ListingStore,
	responseStore actors.ResponseStore,
	relay assets.Relay,
	metrics *utils.MetricsCollector,
	log *zap.SugaredLogger,
) *Engine {
	accountProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewAccountActor(accountStore, relay, metrics, log)
	})
	listingProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewListingActor(listingStore, accountStore, relay, metrics, log)
	})
	responseProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewResponseActor(responseStore, listingStore, accountStore, metrics, log)
	})

	return &Engine{
		accountActor:  system.Root.Spawn(accountProps),
		listingActor:  system.Root.Spawn(listingProps),
		responseActor: system.Root.Spawn(responseProps),
	}
}

func (e *Engine) GetAccountActor() *actor.PID  { return e.accountActor }
func (e *Engine) GetListingActor() *actor.PID  { return e.listingActor }
func (e *Engine) GetResponseActor() *actor.PID { return e.responseActor }
