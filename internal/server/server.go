package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/chudopoly/server-go/internal/bot"
	"github.com/chudopoly/server-go/internal/game"
	"github.com/chudopoly/server-go/internal/room"
)

// Server is the websocket gateway. It owns no game state of its own: every
// operation resolves the client's room and runs under its lock.
type Server struct {
	log      *zap.Logger
	store    *room.Store
	sched    *bot.Scheduler
	upgrader websocket.Upgrader
}

// New creates the gateway.
func New(log *zap.Logger, store *room.Store, sched *bot.Scheduler) *Server {
	return &Server{
		log:   log,
		store: store,
		sched: sched,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the http mux serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	c := newClient(conn, s.log)
	go c.writePump()
	go c.readPump(s)
}

func (s *Server) handleDisconnect(c *client) {
	// Detach before closing the send channel: Broadcast and Detach both
	// hold the room lock, so once Detach returns nothing can queue to this
	// client again.
	if c.roomCode != "" {
		if rm, err := s.store.Get(c.roomCode); err == nil {
			if !rm.Detach(c.playerID) {
				rm.Broadcast()
			}
			// The departed seat may now be bot-piloted; arm its timer.
			// A room with no humans left keeps playing until the sweeper
			// reclaims it.
			s.sched.Kick(rm)
		}
	}
	close(c.send)
}

func (s *Server) handleMessage(c *client, msg *clientMessage) {
	switch msg.Type {
	case msgCreateRoom:
		s.createRoom(c, msg)
	case msgJoinRoom:
		s.joinRoom(c, msg)
	case msgRejoin:
		s.rejoin(c, msg)
	default:
		rm, ok := s.roomOf(c)
		if !ok {
			return
		}
		s.dispatch(c, rm, msg)
	}
}

func (s *Server) roomOf(c *client) (*room.Room, bool) {
	if c.roomCode == "" {
		return nil, false
	}
	rm, err := s.store.Get(c.roomCode)
	if err != nil {
		c.sendError("Room not found")
		return nil, false
	}
	return rm, true
}

func (s *Server) createRoom(c *client, msg *clientMessage) {
	rm := s.store.Create()
	p, err := rm.AddHuman(msg.Name, c)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.roomCode = rm.ID()
	c.playerID = p.ID
	c.sendJSON(joinedMessage{Type: "joined", Code: rm.ID(), PlayerID: p.ID, Name: p.Name})
	rm.Broadcast()
}

func (s *Server) joinRoom(c *client, msg *clientMessage) {
	rm, err := s.store.Get(msg.Code)
	if err != nil {
		c.sendError("Room not found")
		return
	}
	p, err := rm.AddHuman(msg.Name, c)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.roomCode = rm.ID()
	c.playerID = p.ID
	c.sendJSON(joinedMessage{Type: "joined", Code: rm.ID(), PlayerID: p.ID, Name: p.Name})
	rm.Broadcast()
}

// rejoin reattaches a dropped connection to its old seat.
func (s *Server) rejoin(c *client, msg *clientMessage) {
	rm, err := s.store.Get(msg.Code)
	if err != nil {
		c.sendError("Room not found")
		return
	}
	if err := rm.Attach(msg.PlayerID, c); err != nil {
		c.sendError(err.Error())
		return
	}
	c.roomCode = rm.ID()
	c.playerID = msg.PlayerID
	rm.Broadcast()
	s.sched.Kick(rm)
}

func (s *Server) dispatch(c *client, rm *room.Room, msg *clientMessage) {
	switch msg.Type {
	case msgAddBot:
		policy, err := bot.ParsePolicy(msg.Policy)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		if _, err := rm.AddBot(c.playerID, policy); err != nil {
			c.sendError(err.Error())
			return
		}
		rm.Broadcast()

	case msgStartGame:
		if err := rm.Start(c.playerID); err != nil {
			c.sendError(err.Error())
			return
		}
		rm.Broadcast()
		s.sched.Kick(rm)

	case msgDraw:
		s.mutate(c, rm, func(g *game.Game) error {
			_, err := g.Draw(c.playerID)
			return err
		})

	case msgPlayMoney:
		s.mutate(c, rm, func(g *game.Game) error {
			return g.PlayAsMoney(c.playerID, msg.CardIndex)
		})

	case msgPlayProperty:
		s.mutate(c, rm, func(g *game.Game) error {
			return g.PlayProperty(c.playerID, msg.CardIndex, msg.TargetColor)
		})

	case msgPlayAction:
		s.mutate(c, rm, func(g *game.Game) error {
			return g.PlayAction(c.playerID, msg.CardIndex, game.ActionTarget{
				TargetID:     msg.TargetID,
				TargetColor:  msg.TargetColor,
				TargetCardID: msg.TargetCard,
				MyCardID:     msg.MyCardID,
			})
		})

	case msgRespond:
		s.mutate(c, rm, func(g *game.Game) error {
			_, err := g.Respond(c.playerID, game.Response(msg.Response), msg.PaymentCards)
			return err
		})

	case msgMoveProperty:
		s.mutate(c, rm, func(g *game.Game) error {
			return g.MoveProperty(c.playerID, msg.CardID, msg.ToColor)
		})

	case msgEndTurn:
		s.mutate(c, rm, func(g *game.Game) error {
			return g.EndTurn(c.playerID, msg.DiscardIDs)
		})

	case msgScoop:
		s.mutate(c, rm, func(g *game.Game) error {
			return g.Scoop(c.playerID)
		})

	default:
		s.log.Debug("unknown message type", zap.String("type", msg.Type))
	}
}

// mutate runs one engine operation under the room lock, translates its
// error, and on success broadcasts and wakes the scheduler.
func (s *Server) mutate(c *client, rm *room.Room, op func(g *game.Game) error) {
	var opErr error
	started := false
	rm.Do(func(g *game.Game) {
		if g == nil {
			return
		}
		started = true
		opErr = op(g)
	})
	if !started {
		c.sendError("Game not started")
		return
	}
	if opErr != nil {
		s.sendOpError(c, opErr)
		return
	}
	rm.Broadcast()
	s.sched.Kick(rm)
}

func (s *Server) sendOpError(c *client, err error) {
	var due *game.PaymentDueError
	if errors.As(err, &due) {
		c.sendJSON(needPaymentMessage{Type: "need_payment", Amount: due.Amount})
		return
	}
	var disc *game.DiscardRequiredError
	if errors.As(err, &disc) {
		c.sendJSON(errorMessage{
			Type:        "error",
			Message:     err.Error(),
			NeedDiscard: true,
			Excess:      disc.Excess,
		})
		return
	}
	c.sendError(err.Error())
}
