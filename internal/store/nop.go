package store

import "github.com/wnaveed5/Job-Checker/internal/model"

// NopStore is a no-op store used in check mode. It never records anything,
// so every job appears new on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) IsNew(job model.Job) (bool, error) { return true, nil }
func (s *NopStore) Add(jobs []model.Job) error        { return nil }
