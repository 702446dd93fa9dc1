package tictactoe_test

import (
	"sync"
	"testing"

	"github.com/rocketscienceinc/tictactoe-window/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-window/internal/entity"
	"github.com/rocketscienceinc/tictactoe-window/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-window/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameController(t *testing.T) {
	_, st := suite.New(t, "")

	// Then: the board is empty, the counter is zero and Player 1 is shown
	assert.Equal(t, entity.NewState(), st.Controller.State())
	assert.Equal(t, entity.PlayerX, st.Controller.Indicator())
	assert.Equal(t, entity.DrawPolicyFixed, st.Controller.Policy())
	assert.Empty(t, st.Events.All())
}

func TestGameController_OnCellActivated(t *testing.T) {
	t.Run("Indicator alternates while no line is formed", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyLegacy)

		// X O X / X O O / O X X never forms a line
		moves := []string{"11", "12", "13", "22", "21", "23", "32", "31", "33"}
		for i, value := range moves {
			cell, err := entity.ParseCellID(value)
			require.NoError(t, err)

			// When: the next cell is activated
			result, err := st.Controller.OnCellActivated(cell)
			require.NoError(t, err)

			// Then: the other player's indicator is shown
			require.Equal(t, entity.OutcomeContinue, result.Outcome)
			assert.Equal(t, result.Mark.Other(), st.Controller.Indicator(), "move %d", i+1)
			assert.Equal(t, i+1, st.Controller.State().TurnCount)
			assert.Equal(t, i+1, st.Controller.State().Board.Filled())
		}

		// Then: no win dialog appeared
		assert.Zero(t, st.Events.Count(tictactoe.EventWin))
		assert.Zero(t, st.Events.Count(tictactoe.EventDraw))
		assert.Equal(t, len(moves), st.Events.Count(tictactoe.EventIndicatorChanged))
	})

	t.Run("Diagonal win resets the board", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyFixed)

		// When: X@(1,1), O@(1,2), X@(2,2), O@(1,3), X@(3,3)
		results := st.Play("11", "12", "22", "13", "33")

		// Then: the last move wins for X
		last := results[len(results)-1]
		assert.Equal(t, entity.OutcomeWin, last.Outcome)
		assert.Equal(t, entity.PlayerX, last.Mark)

		// Then: the board is empty, the counter is zero and Player 1 is shown
		assert.Equal(t, entity.NewState(), st.Controller.State())
		assert.Equal(t, entity.PlayerX, st.Controller.Indicator())

		// Then: the win was announced once, followed by a reset
		events := st.Events.All()
		require.GreaterOrEqual(t, len(events), 3)
		tail := events[len(events)-3:]
		assert.Equal(t, tictactoe.EventMarkPlaced, tail[0].Kind)
		assert.Equal(t, tictactoe.EventWin, tail[1].Kind)
		assert.Equal(t, tictactoe.WinMessage, tail[1].Message)
		assert.Equal(t, 5, tail[1].State.TurnCount)
		assert.Equal(t, tictactoe.EventReset, tail[2].Kind)
		assert.Equal(t, 1, st.Events.Count(tictactoe.EventWin))
	})

	t.Run("O can win", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyFixed)

		results := st.Play("11", "21", "12", "22", "33", "23")

		last := results[len(results)-1]
		assert.Equal(t, entity.OutcomeWin, last.Outcome)
		assert.Equal(t, entity.PlayerO, last.Mark)
		assert.Equal(t, entity.PlayerX, st.Controller.Indicator())
	})

	t.Run("Full board is a tie with fixed policy", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyFixed)

		results := st.Play("11", "12", "13", "22", "21", "23", "32", "31", "33")

		assert.Equal(t, entity.OutcomeDraw, results[len(results)-1].Outcome)
		assert.Equal(t, 1, st.Events.Count(tictactoe.EventDraw))
		assert.Zero(t, st.Events.Count(tictactoe.EventWin))
		assert.Equal(t, entity.NewState(), st.Controller.State())
		assert.Equal(t, entity.PlayerX, st.Controller.Indicator())

		for _, event := range st.Events.All() {
			if event.Kind == tictactoe.EventDraw {
				assert.Equal(t, tictactoe.TieMessage, event.Message)
			}
		}
	})

	t.Run("Full board is never a tie with legacy policy", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyLegacy)

		st.Play("11", "12", "13", "22", "21", "23", "32", "31", "33")

		// Then: no tie is reported and the board stays full
		assert.Zero(t, st.Events.Count(tictactoe.EventDraw))
		assert.Equal(t, 9, st.Controller.State().TurnCount)

		// Then: nothing can be played until an explicit reset
		_, err := st.Controller.OnCellActivated(entity.CellID{Row: 1, Column: 1})
		require.ErrorIs(t, err, apperror.ErrCellDisabled)

		st.Controller.Reset()
		assert.Equal(t, entity.NewState(), st.Controller.State())
	})

	t.Run("Error on disabled cell", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyFixed)

		st.Play("22")
		st.Events.Clear()

		// When: the same cell is activated again
		_, err := st.Controller.OnCellActivated(entity.CellID{Row: 2, Column: 2})

		// Then: ErrCellDisabled is returned, nothing changes and nothing is published
		require.ErrorIs(t, err, apperror.ErrCellDisabled)
		assert.Equal(t, 1, st.Controller.State().TurnCount)
		assert.Equal(t, entity.PlayerO, st.Controller.Indicator())
		assert.Empty(t, st.Events.All())
	})

	t.Run("Error on invalid cell", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyFixed)

		_, err := st.Controller.OnCellActivated(entity.CellID{Row: 4, Column: 1})

		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})
}

func TestGameController_CheckWin(t *testing.T) {
	t.Run("No line leaves the board alone", func(t *testing.T) {
		_, st := suite.New(t, entity.DrawPolicyFixed)
		st.Play("11", "12")

		won := st.Controller.CheckWin(entity.PlayerX, entity.CellID{Row: 1, Column: 1})

		assert.False(t, won)
		assert.Equal(t, 2, st.Controller.State().TurnCount)
	})
}

func TestGameController_Lines(t *testing.T) {
	_, st := suite.New(t, entity.DrawPolicyLegacy)

	// X O X / X O O / O X X
	st.Play("11", "12", "13", "22", "21", "23", "32", "31", "33")

	assert.False(t, st.Controller.CheckRow(entity.PlayerX, 0))
	assert.False(t, st.Controller.CheckColumn(entity.PlayerO, 1))
	assert.False(t, st.Controller.CheckDiagonal1(entity.PlayerX))
	assert.False(t, st.Controller.CheckDiagonal2(entity.PlayerO))
}

func TestGameController_Reset(t *testing.T) {
	_, st := suite.New(t, entity.DrawPolicyFixed)

	// Given: a few cells are played
	st.Play("11", "22", "33", "13")
	require.Equal(t, entity.PlayerX, st.Controller.Indicator())
	st.Play("31")
	require.Equal(t, entity.PlayerO, st.Controller.Indicator())

	// When: the board is reset
	st.Controller.Reset()

	// Then: every cell is empty and enabled again
	state := st.Controller.State()
	for _, cell := range entity.AllCells() {
		assert.True(t, state.Board.Enabled(cell), "cell %s", cell)
	}
	assert.Equal(t, 0, state.TurnCount)
	assert.Equal(t, entity.PlayerX, st.Controller.Indicator())

	events := st.Events.All()
	assert.Equal(t, tictactoe.EventReset, events[len(events)-1].Kind)
}

func TestGameController_Subscribe(t *testing.T) {
	_, st := suite.New(t, entity.DrawPolicyFixed)

	var (
		mu    sync.Mutex
		kinds []tictactoe.EventKind
	)
	unsubscribe := st.Controller.Subscribe(func(event tictactoe.Event) {
		mu.Lock()
		defer mu.Unlock()

		kinds = append(kinds, event.Kind)

		// listeners may read the controller without deadlocking
		_ = st.Controller.State()
	})

	st.Play("11")
	unsubscribe()
	st.Play("12")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []tictactoe.EventKind{tictactoe.EventMarkPlaced, tictactoe.EventIndicatorChanged}, kinds)
	assert.Equal(t, 4, len(st.Events.All()))
}

func TestGameController_Concurrent(t *testing.T) {
	_, st := suite.New(t, entity.DrawPolicyLegacy)

	var wg sync.WaitGroup
	for _, cell := range entity.AllCells() {
		wg.Add(1)
		go func(cell entity.CellID) {
			defer wg.Done()
			_, _ = st.Controller.OnCellActivated(cell)
		}(cell)
	}
	wg.Wait()

	// Then: each activation was applied whole, whatever the order.
	// A win may have reset the board along the way.
	state := st.Controller.State()
	assert.Equal(t, state.TurnCount, state.Board.Filled())
}
