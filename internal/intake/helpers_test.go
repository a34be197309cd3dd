package intake

import (
	"context"
	"errors"
	"sync"
)

func validRecord() Record {
	rec := Defaults()
	rec.FullName = "John Smith"
	rec.Email = "john@example.com"
	rec.Age = Int(28)
	rec.Height = `5'10"`
	rec.CurrentWeight = "180 lbs"
	rec.TimeZone = "EST"
	rec.MainGoal = "Lose weight and build muscle"
	rec.GoalMotivation = "I want to keep up with my kids"
	rec.WhatHeldYouBack = "Busy work schedule"
	rec.Feeling3to6Months = "Frustrated and tired"
	rec.CommitmentLevel = Int(7)
	rec.ThrowsYouOffTrack = []string{"emotional-eating", "lack-motivation"}
	rec.WorkoutTypes = "Running and lifting"
	rec.MedicalConditions = "None"
	rec.TypicalEating = "Oatmeal, chicken salad and pasta for dinner"
	rec.DietaryNeeds = "None"
	return rec
}

type stubSubmitter struct {
	mu      sync.Mutex
	err     error
	records []Record
}

func (s *stubSubmitter) Submit(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec.Clone())
	return s.err
}

func (s *stubSubmitter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// blockingSubmitter holds every Submit until release is closed.
type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingSubmitter() *blockingSubmitter {
	return &blockingSubmitter{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blockingSubmitter) Submit(ctx context.Context, _ Record) error {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var errEndpointDown = errors.New("Failed to submit form: dial tcp: connection refused")
