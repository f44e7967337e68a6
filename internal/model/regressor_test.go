// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package model

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/rentpredict/internal/features"
)

func constant(v float64) Regressor {
	return RegressorFunc(func(context.Context, features.Vector) (float64, error) { return v, nil })
}

func TestRound2_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{2.675, 2.67}, // binary value is below the midpoint
		{0.125, 0.12}, // exact tie, rounds to even
		{0.375, 0.38}, // exact tie, rounds to even
		{1.005, 1.0},
		{1234.5678, 1234.57},
		{1250, 1250},
		{-3.14159, -3.14},
		{0.004, 0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRound2_Stable(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{0.1, 2.675, 999.995, 1e6 / 3, -42.4242, 1387.125} {
		once := Round2(x)
		if twice := Round2(once); twice != once {
			t.Errorf("Round2(Round2(%v)) = %v, want %v", x, twice, once)
		}
	}
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	got, err := Invoke(context.Background(), constant(1234.5678), features.Vector{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != 1234.57 {
		t.Errorf("Invoke() = %v, want 1234.57", got)
	}
}

func TestInvoke_ErrorUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("booster exploded")
	r := RegressorFunc(func(context.Context, features.Vector) (float64, error) { return 0, boom })

	_, err := Invoke(context.Background(), r, features.Vector{})
	if err != boom { //nolint:errorlint // the error must be the exact value returned by the model
		t.Errorf("Invoke() error = %v, want the model's error unchanged", err)
	}
}

func TestInvoke_NonFinite(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := Invoke(context.Background(), constant(v), features.Vector{}); !errors.Is(err, ErrNonFinite) {
			t.Errorf("Invoke(%v) error = %v, want ErrNonFinite", v, err)
		}
	}
}

func TestSerialized_OneAtATime(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	inner := RegressorFunc(func(context.Context, features.Vector) (float64, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		return 1, nil
	})

	s := Serialize(inner)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Predict(context.Background(), features.Vector{}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got := peak.Load(); got != 1 {
		t.Errorf("peak concurrent calls = %d, want 1", got)
	}
}
