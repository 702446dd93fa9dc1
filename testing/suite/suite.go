package suite

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-window/internal/entity"
	"github.com/rocketscienceinc/tictactoe-window/internal/tictactoe"
)

const maxWaitDuration = 10 * time.Second

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Controller *tictactoe.GameController
	Events     *Recorder
}

// New builds a controller with a recorder subscribed to it.
func New(t *testing.T, policy entity.DrawPolicy) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	controller := tictactoe.NewGameController(logger, policy)
	recorder := &Recorder{}
	unsubscribe := controller.Subscribe(recorder.Record)
	t.Cleanup(unsubscribe)

	return ctx, &Suite{
		T:          t,
		Logger:     logger,
		Controller: controller,
		Events:     recorder,
	}
}

// Play activates the cells in order and fails the test on the first error.
func (that *Suite) Play(cells ...string) []entity.Result {
	that.Helper()

	results := make([]entity.Result, 0, len(cells))
	for _, value := range cells {
		cell, err := entity.ParseCellID(value)
		if err != nil {
			that.Fatalf("could not parse cell %q: %v", value, err)
		}

		result, err := that.Controller.OnCellActivated(cell)
		if err != nil {
			that.Fatalf("could not activate cell %s: %v", cell, err)
		}

		results = append(results, result)
	}

	return results
}

type Recorder struct {
	mu     sync.Mutex
	events []tictactoe.Event
}

func (that *Recorder) Record(event tictactoe.Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *Recorder) All() []tictactoe.Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]tictactoe.Event(nil), that.events...)
}

func (that *Recorder) Kinds() []tictactoe.EventKind {
	kinds := make([]tictactoe.EventKind, 0)
	for _, event := range that.All() {
		kinds = append(kinds, event.Kind)
	}

	return kinds
}

// Count returns how many events of kind were recorded.
func (that *Recorder) Count(kind tictactoe.EventKind) int {
	count := 0
	for _, event := range that.All() {
		if event.Kind == kind {
			count++
		}
	}

	return count
}

func (that *Recorder) Clear() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = nil
}
