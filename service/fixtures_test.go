package service

import (
	"context"
	"sync"
	"testing"

	"realty-insights-backend/models"
)

const marketCSV = `final location,year,total_sales - igr,total sold - igr,flat - weighted average rate,office - weighted average rate,city
Wakad,2020,100,50,5000,7000,Pune
Wakad,2021,120,60,5500,7200,Pune
Wakad,2022,130,,6000,,Pune
Aundh,2021,90,40,8000,9000,Pune
Aundh,2022,95,45,8500,,Pune
Aundh,2023,97,47,9000,9500,Pune
`

func mustParseCSV(t *testing.T, text string) *models.Dataset {
	t.Helper()
	ds, err := ParseCSV([]byte(text))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	return ds
}

// fakeSource serves a fixed payload and counts fetches
type fakeSource struct {
	mu      sync.Mutex
	payload *SheetPayload
	err     error
	fetches int
	started chan struct{}
	release chan struct{}
}

func newFakeSource(csv string) *fakeSource {
	return &fakeSource{payload: &SheetPayload{Data: []byte(csv), Format: FormatCSV, Name: "sheet"}}
}

func (s *fakeSource) Fetch(ctx context.Context) (*SheetPayload, error) {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func (s *fakeSource) Describe() string { return "fake" }

func (s *fakeSource) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *fakeSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// staticProvider returns the same dataset every time
type staticProvider struct {
	ds  *models.Dataset
	err error
}

func (p staticProvider) Get(ctx context.Context) (*models.Dataset, error) {
	return p.ds, p.err
}
