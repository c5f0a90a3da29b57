package server

import "github.com/chudopoly/server-go/internal/game"

// clientMessage is the single inbound frame shape. Type selects the
// operation; the other fields are read as that operation needs them.
type clientMessage struct {
	Type string `json:"type"`

	// Lobby.
	Name   string `json:"name,omitempty"`
	Code   string `json:"code,omitempty"`
	Policy string `json:"policy,omitempty"`

	// Rejoin.
	PlayerID string `json:"playerId,omitempty"`

	// Plays.
	CardIndex   int        `json:"cardIndex"`
	TargetID    string     `json:"targetId,omitempty"`
	TargetColor game.Color `json:"targetColor,omitempty"`
	TargetCard  string     `json:"targetCardId,omitempty"`
	MyCardID    string     `json:"myCardId,omitempty"`

	// Property moves.
	CardID  string     `json:"cardId,omitempty"`
	ToColor game.Color `json:"toColor,omitempty"`

	// Responses and end of turn.
	Response     string   `json:"response,omitempty"`
	PaymentCards []string `json:"paymentCards,omitempty"`
	DiscardIDs   []string `json:"discardIds,omitempty"`
}

const (
	msgCreateRoom   = "create_room"
	msgJoinRoom     = "join_room"
	msgRejoin       = "rejoin"
	msgAddBot       = "add_bot"
	msgStartGame    = "start_game"
	msgDraw         = "draw"
	msgPlayMoney    = "play_money"
	msgPlayProperty = "play_property"
	msgPlayAction   = "play_action"
	msgRespond      = "respond"
	msgMoveProperty = "move_property"
	msgEndTurn      = "end_turn"
	msgScoop        = "scoop"
)

// joinedMessage confirms a seat to the player who just took it.
type joinedMessage struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// errorMessage reports a rejected operation. NeedDiscard and Excess are
// set when an end-turn was refused over the hand limit.
type errorMessage struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	NeedDiscard bool   `json:"needDiscard,omitempty"`
	Excess      int    `json:"excess,omitempty"`
}

// needPaymentMessage asks the responder to pick cards covering the amount.
type needPaymentMessage struct {
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}
