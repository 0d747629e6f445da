package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/san-kum/scadsim/internal/physics"
)

type Simulator struct {
	backend   physics.Backend
	observers []Observer
	sleep     SleepFunc
	out       io.Writer
}

func New(b physics.Backend) *Simulator {
	return &Simulator{
		backend:   b,
		observers: make([]Observer, 0),
		sleep:     Sleep,
		out:       os.Stdout,
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetSleep(f SleepFunc)   { s.sleep = f }
func (s *Simulator) SetOutput(w io.Writer)  { s.out = w }

// Bootstrap opens a session, points it at the search paths, sets gravity
// and loads the ground plane. The session is released again if any of
// that fails.
func (s *Simulator) Bootstrap(set Settings) (_ physics.Session, err error) {
	sess, err := s.backend.Connect(set.Mode)
	if err != nil {
		return 0, fmt.Errorf("connect %s: %w", set.Mode, err)
	}
	defer func() {
		if err != nil {
			s.backend.Disconnect(sess)
		}
	}()

	for _, p := range set.SearchPaths {
		if err = s.backend.SetAdditionalSearchPath(sess, p); err != nil {
			return 0, err
		}
	}
	if err = s.backend.SetGravity(sess, set.Gravity); err != nil {
		return 0, err
	}
	if _, err = s.backend.LoadAsset(sess, PlaneAsset); err != nil {
		return 0, err
	}
	slog.Info("physics session ready", "session", int(sess), "mode", set.Mode.String())
	return sess, nil
}

// Visualize points the camera, steps the session set.Steps times with a
// pause of set.Interval after each step and then releases the session.
// The session is released exactly once whatever happens.
func (s *Simulator) Visualize(ctx context.Context, sess physics.Session, set Settings) (res *Result, err error) {
	res = &Result{}
	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		if derr := s.backend.Disconnect(sess); derr != nil {
			err = errors.Join(err, fmt.Errorf("disconnect: %w", derr))
			return
		}
		if err == nil {
			fmt.Fprintln(s.out, CompletionMessage)
		}
	}()

	if err := s.backend.ResetDebugVisualizerCamera(sess, set.Camera); err != nil {
		return res, err
	}

	for i := 0; i < set.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.backend.StepSimulation(sess); err != nil {
			if errors.Is(err, physics.ErrWindowClosed) {
				slog.Info("visualizer closed", "step", i)
				res.Closed = true
				return res, nil
			}
			return res, fmt.Errorf("step %d: %w", i, err)
		}
		res.Steps++
		res.Time = float64(res.Steps) * physics.DefaultTimeStep

		if len(s.observers) > 0 {
			if err := s.notify(sess, set.Camera, res); err != nil {
				return res, err
			}
		}
		if err := s.sleep(ctx, set.Interval); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Simulator) notify(sess physics.Session, cam physics.Camera, res *Result) error {
	bodies, err := s.backend.Bodies(sess)
	if err != nil {
		return err
	}
	f := physics.Frame{Session: sess, Step: res.Steps, Time: res.Time, Camera: cam, Bodies: bodies}
	for _, o := range s.observers {
		o.OnStep(f)
	}
	return nil
}

// Run bootstraps a session, spawns m above the ground and visualizes it.
func (s *Simulator) Run(ctx context.Context, m Spawner, set Settings) (*Result, error) {
	sess, err := s.Bootstrap(set)
	if err != nil {
		return nil, err
	}
	if _, err := m.ToUniformColourObject(s.backend, sess, set.DropHeight); err != nil {
		s.backend.Disconnect(sess)
		return nil, fmt.Errorf("spawn model: %w", err)
	}
	return s.Visualize(ctx, sess, set)
}

// Sleep waits for d or until ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
