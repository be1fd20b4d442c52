package services

import (
	"context"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/domain"
)

// stubStore is an in-memory OrderStore that counts every call so tests can
// assert "zero upstream calls" and "exactly one mutation" properties.
type stubStore struct {
	findByName   func(ctx context.Context, ref string) (*domain.Order, error)
	findByTag    func(ctx context.Context, tag string) (*domain.Order, error)
	addTags      func(ctx context.Context, orderID string, tags []string) error
	setMetafield func(ctx context.Context, ownerID, namespace, key, value string) error

	findByNameCalls   int
	findByTagCalls    int
	addTagsCalls      int
	setMetafieldCalls int

	gotAddOrderID string
	gotAddTags    []string
}

func (s *stubStore) FindOrderByName(ctx context.Context, ref string) (*domain.Order, error) {
	s.findByNameCalls++
	if s.findByName != nil {
		return s.findByName(ctx, ref)
	}
	return nil, nil
}

func (s *stubStore) FindOrderByTag(ctx context.Context, tag string) (*domain.Order, error) {
	s.findByTagCalls++
	if s.findByTag != nil {
		return s.findByTag(ctx, tag)
	}
	return nil, nil
}

func (s *stubStore) AddOrderTags(ctx context.Context, orderID string, tags []string) error {
	s.addTagsCalls++
	s.gotAddOrderID = orderID
	s.gotAddTags = append([]string(nil), tags...)
	if s.addTags != nil {
		return s.addTags(ctx, orderID, tags)
	}
	return nil
}

func (s *stubStore) SetOrderMetafield(ctx context.Context, ownerID, namespace, key, value string) error {
	s.setMetafieldCalls++
	if s.setMetafield != nil {
		return s.setMetafield(ctx, ownerID, namespace, key, value)
	}
	return nil
}

// mutations is the total number of write calls the stub has seen.
func (s *stubStore) mutations() int { return s.addTagsCalls + s.setMetafieldCalls }
