package testutil

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockTrackingStore is a mock of ports.TrackingStore.
type MockTrackingStore struct {
	mock.Mock
}

func (m *MockTrackingStore) RunArtifactURI(ctx context.Context, runID string) (string, error) {
	args := m.Called(ctx, runID)
	return args.String(0), args.Error(1)
}

func (m *MockTrackingStore) ModelVersionSource(ctx context.Context, name, version string) (string, error) {
	args := m.Called(ctx, name, version)
	return args.String(0), args.Error(1)
}

func (m *MockTrackingStore) Close() error {
	return nil
}

// MockArtifactRepo is a mock of ports.ArtifactRepository serving URIs with Prefix.
type MockArtifactRepo struct {
	mock.Mock
	Prefix string
}

func (m *MockArtifactRepo) Handles(uri string) bool {
	return strings.HasPrefix(uri, m.Prefix)
}

func (m *MockArtifactRepo) Read(ctx context.Context, uri string) ([]byte, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
