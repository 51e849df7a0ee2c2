package handler

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/peek/accessor"
	"github.com/oomph-ac/peek/game"
	"github.com/oomph-ac/peek/oerror"
	"github.com/oomph-ac/peek/payload"
	"github.com/oomph-ac/peek/player"
	"github.com/oomph-ac/peek/provider"
	"github.com/oomph-ac/peek/settings"
	"github.com/oomph-ac/peek/utils"
	"github.com/oomph-ac/peek/worker"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/sirupsen/logrus"
)

// Server answers server data requests sent by clients.
type Server struct {
	log          *logrus.Logger
	registry     *provider.Registry
	pool         *worker.Pool
	errs         *oerror.Handler
	rangePadding float32
}

// NewServer returns a Server using the providers of the registry passed. Providers disabled in the settings are
// disabled in the registry.
func NewServer(s settings.Settings, registry *provider.Registry, pool *worker.Pool, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	for _, uid := range s.Sync.DisabledProviders {
		registry.SetEnabled(uid, false)
	}
	return &Server{
		log:          log,
		registry:     registry,
		pool:         pool,
		errs:         oerror.NewHandler(log),
		rangePadding: s.Sync.RangePadding,
	}
}

// HandlePacket handles a packet sent by the player passed. It returns true if the packet was a server data request,
// in which case it should not be forwarded any further. The response is written to w once the request has been
// handled.
func (s *Server) HandlePacket(p *player.Player, pk packet.Packet, w PacketWriter) bool {
	msg, ok := pk.(*packet.ScriptMessage)
	if !ok || msg.Identifier != payload.IdentifierRequestBlock {
		return false
	}

	data, err := payload.DecodeSyncData(msg.Data)
	if err != nil {
		s.log.WithField("player", p.Name()).Debugf("dropped malformed block request: %v", err)
		return true
	}
	s.HandleBlockRequest(data, playerContext{p: p, exec: s.pool}, func(tag map[string]any) {
		resp, err := payload.ResponsePacket(tag)
		if err != nil {
			s.log.WithField("player", p.Name()).Errorf("unable to encode server data: %v", err)
			return
		}
		if err := w.WritePacket(resp); err != nil {
			s.log.WithField("player", p.Name()).Debugf("unable to send server data: %v", err)
		}
	})
	return true
}

// HandleBlockRequest handles a block server data request in the context passed. The request is dropped if the
// block is too far from the player, is in a chunk that is not loaded, or if no provider handles it. Otherwise
// every provider appends its data and send is called with the result.
func (s *Server) HandleBlockRequest(data payload.SyncData, ctx Context, send func(map[string]any)) {
	ctx.Execute(func() {
		p := ctx.Player()
		a := data.Unpack(p)
		if a == nil {
			return
		}

		pos := a.Position()
		maxDistance := game.Square(float64(p.InteractionRange() + s.rangePadding))
		if game.DistSqr(pos, p.BlockPosition()) > maxDistance || !a.World().IsLoaded(pos) {
			s.log.WithFields(logrus.Fields{"player": p.Name(), "pos": pos}).Debug("dropped block request out of range")
			return
		}

		providers := s.registry.BlockProviders(a.Block(), a.BlockEntity())
		if len(providers) == 0 {
			return
		}

		tag := a.ServerData()
		for _, pr := range providers {
			s.appendServerData(pr, tag, a)
		}

		tag["x"] = int32(pos.X())
		tag["y"] = int32(pos.Y())
		tag["z"] = int32(pos.Z())
		tag["BlockId"] = utils.BlockName(a.Block())
		send(tag)
	})
}

// appendServerData runs a single provider, handing any error or panic to the error handler.
func (s *Server) appendServerData(pr provider.ServerDataProvider, tag map[string]any, a accessor.Block) {
	defer func() {
		if r := recover(); r != nil {
			s.errs.Handle(oerror.Recovered(r), pr.UID(), errorContext(a))
		}
	}()
	if err := pr.AppendServerData(tag, a); err != nil {
		s.errs.Handle(err, pr.UID(), errorContext(a))
	}
}

func errorContext(a accessor.Block) *orderedmap.OrderedMap[string, any] {
	extra := orderedmap.NewOrderedMap[string, any]()
	extra.Set("block", utils.BlockName(a.Block()))
	extra.Set("pos", a.Position())
	if p := a.Player(); p != nil {
		extra.Set("player", p.Name())
	}
	return extra
}
