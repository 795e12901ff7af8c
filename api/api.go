// Package api serves motor moves over HTTP. Each created Move runs on the motor before it is stored.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/calvinmclean/ardumoto"

	"github.com/calvinmclean/babyapi"
)

// Move is a relative move of the motor
type Move struct {
	babyapi.DefaultResource

	// Steps is the number of steps to move, negative values move in reverse
	Steps int `json:"steps"`
	// RPM optionally changes the speed before moving
	RPM int `json:"rpm,omitempty"`

	CompletedAt time.Time `json:"completed_at"`
}

func (m *Move) Bind(r *http.Request) error {
	err := m.DefaultResource.Bind(r)
	if err != nil {
		return err
	}

	if m.RPM < 0 || m.RPM > ardumoto.MaxRPM {
		return fmt.Errorf("invalid rpm: %d", m.RPM)
	}

	return nil
}

// Mover is the motor that moves are run on
type Mover interface {
	SetSpeed(rpm int) error
	Step(steps int) error
}

// API serves Moves at /moves
type API struct {
	*babyapi.API[*Move]

	mover  Mover
	logger *slog.Logger

	// the motor can only do one move at a time
	mtx sync.Mutex
}

func New(mover Mover) *API {
	a := &API{
		API:    babyapi.NewAPI("Moves", "/moves", func() *Move { return &Move{} }),
		mover:  mover,
		logger: slog.Default().With("component", "api"),
	}

	a.API.SetOnCreateOrUpdate(a.runMove)

	return a
}

func (a *API) runMove(_ http.ResponseWriter, r *http.Request, m *Move) *babyapi.ErrResponse {
	// moves already happened, so they can't be changed
	if r.Method != http.MethodPost {
		return &babyapi.ErrResponse{
			HTTPStatusCode: http.StatusMethodNotAllowed,
			StatusText:     "Method not allowed.",
		}
	}

	a.mtx.Lock()
	defer a.mtx.Unlock()

	logger := a.logger.With("id", m.GetID(), "steps", m.Steps, "rpm", m.RPM)

	if m.RPM > 0 {
		err := a.mover.SetSpeed(m.RPM)
		if err != nil {
			logger.Error("error setting speed", "error", err)
			return babyapi.ErrInvalidRequest(err)
		}
	}

	err := a.mover.Step(m.Steps)
	if err != nil {
		logger.Error("error moving", "error", err)
		return babyapi.InternalServerError(err)
	}

	m.CompletedAt = time.Now()
	logger.Info("completed move")

	return nil
}

// Serve runs the HTTP server until ctx is done
func (a *API) Serve(ctx context.Context, addr string) error {
	a.logger.Info("starting server", "addr", addr)
	return a.API.WithContext(ctx).SetAddress(addr).Serve()
}
