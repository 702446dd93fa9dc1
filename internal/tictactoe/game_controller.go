package tictactoe

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-window/internal/entity"
)

const (
	WinMessage = "WIN!"
	TieMessage = "Tie Game!"
)

type EventKind string

const (
	EventMarkPlaced       EventKind = "mark_placed"
	EventIndicatorChanged EventKind = "indicator_changed"
	EventWin              EventKind = "win"
	EventDraw             EventKind = "draw"
	EventReset            EventKind = "reset"
)

// Event is published after the controller changed something visible.
// State and Indicator are snapshots taken when the event was raised.
type Event struct {
	Kind      EventKind
	State     entity.State
	Indicator entity.Mark
	Result    entity.Result
	// Message is the notification text for EventWin and EventDraw.
	Message string
}

type Listener func(Event)

// GameController owns the board, the turn counter and the turn indicator of a
// single window. Each call runs to completion before the next one starts;
// listeners are called after the controller lock is released.
type GameController struct {
	logger *slog.Logger
	policy entity.DrawPolicy

	mu        sync.Mutex
	state     entity.State
	indicator entity.Mark

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

func NewGameController(logger *slog.Logger, policy entity.DrawPolicy) *GameController {
	if policy == "" {
		policy = entity.DrawPolicyFixed
	}

	return &GameController{
		logger:    logger.With("component", "game_controller"),
		policy:    policy,
		state:     entity.NewState(),
		indicator: entity.PlayerX,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns a func that removes it.
func (that *GameController) Subscribe(l Listener) func() {
	that.listenersMu.Lock()
	defer that.listenersMu.Unlock()

	id := that.nextID
	that.nextID++
	that.listeners[id] = l

	return func() {
		that.listenersMu.Lock()
		defer that.listenersMu.Unlock()

		delete(that.listeners, id)
	}
}

// OnCellActivated places the active player's mark on cell. A win or a draw
// resets the board before the call returns.
func (that *GameController) OnCellActivated(cell entity.CellID) (entity.Result, error) {
	that.mu.Lock()

	next, result, err := ApplyMove(that.state, cell, that.policy)
	if err != nil {
		that.mu.Unlock()
		that.logger.Debug("activation rejected", "cell", cell.String(), "error", err)

		return entity.Result{}, fmt.Errorf("failed to activate cell: %w", err)
	}

	placed := entity.State{Board: result.Board, TurnCount: that.state.TurnCount + 1}
	events := []Event{{
		Kind:      EventMarkPlaced,
		State:     placed,
		Indicator: that.indicator,
		Result:    result,
	}}

	that.logger.Debug("mark placed", "cell", cell.String(), "mark", string(result.Mark), "turn", placed.TurnCount)

	switch result.Outcome {
	case entity.OutcomeWin:
		that.logger.Info("round won", "player", string(result.Mark), "line", string(result.Line.Kind), "turn", placed.TurnCount)
		events = append(events, Event{
			Kind:      EventWin,
			State:     placed,
			Indicator: that.indicator,
			Result:    result,
			Message:   WinMessage,
		})
		events = append(events, that.reset())
	case entity.OutcomeDraw:
		that.logger.Info("round tied", "turn", placed.TurnCount)
		events = append(events, Event{
			Kind:      EventDraw,
			State:     placed,
			Indicator: that.indicator,
			Result:    result,
			Message:   TieMessage,
		})
		events = append(events, that.reset())
	default:
		that.state = next
		that.indicator = result.Next
		events = append(events, Event{
			Kind:      EventIndicatorChanged,
			State:     that.state,
			Indicator: that.indicator,
			Result:    result,
		})

		if next.Board.Filled() == entity.CellCount {
			that.logger.Warn("board is full without a winner, waiting for reset", "policy", string(that.policy))
		}
	}

	that.mu.Unlock()
	that.publish(events)

	return result, nil
}

// CheckWin evaluates the current board for symbol around cell. When a line is
// complete it announces the win, resets the board and returns true.
func (that *GameController) CheckWin(symbol entity.Mark, cell entity.CellID) bool {
	that.mu.Lock()

	line, ok := winningLine(that.state.Board, symbol, cell)
	if !ok {
		that.mu.Unlock()
		return false
	}

	result := entity.Result{
		Outcome: entity.OutcomeWin,
		Cell:    cell,
		Mark:    symbol,
		Board:   that.state.Board,
		Line:    &line,
		Next:    entity.PlayerX,
	}
	// the win snapshot has to be taken before reset clears the board
	events := []Event{{
		Kind:      EventWin,
		State:     that.state,
		Indicator: that.indicator,
		Result:    result,
		Message:   WinMessage,
	}}
	events = append(events, that.reset())

	that.mu.Unlock()
	that.publish(events)

	return true
}

// CheckRow takes a 0-indexed row of the current board.
func (that *GameController) CheckRow(symbol entity.Mark, row int) bool {
	return CheckRow(that.State().Board, symbol, row)
}

// CheckColumn takes a 0-indexed column of the current board.
func (that *GameController) CheckColumn(symbol entity.Mark, column int) bool {
	return CheckColumn(that.State().Board, symbol, column)
}

func (that *GameController) CheckDiagonal1(symbol entity.Mark) bool {
	return CheckDiagonal1(that.State().Board, symbol)
}

func (that *GameController) CheckDiagonal2(symbol entity.Mark) bool {
	return CheckDiagonal2(that.State().Board, symbol)
}

// Reset clears and re-enables every cell and shows Player 1's indicator.
func (that *GameController) Reset() {
	that.mu.Lock()
	event := that.reset()
	that.mu.Unlock()

	that.publish([]Event{event})
}

func (that *GameController) State() entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

// Indicator is the player whose turn indicator is visible.
func (that *GameController) Indicator() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.indicator
}

func (that *GameController) Policy() entity.DrawPolicy {
	return that.policy
}

// reset must be called with mu held.
func (that *GameController) reset() Event {
	that.state = entity.NewState()
	that.indicator = entity.PlayerX
	that.logger.Debug("board reset")

	return Event{
		Kind:      EventReset,
		State:     that.state,
		Indicator: that.indicator,
	}
}

func (that *GameController) publish(events []Event) {
	that.listenersMu.Lock()
	ids := make([]int, 0, len(that.listeners))
	for id := range that.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, that.listeners[id])
	}
	that.listenersMu.Unlock()

	for _, event := range events {
		for _, l := range listeners {
			l(event)
		}
	}
}
