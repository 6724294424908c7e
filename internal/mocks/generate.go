// Package mocks provides mock implementations for testing the EDUCA session gateway.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	storage := mocks.NewMockLocalStorage(ctrl)
//	storage.EXPECT().GetItem(gomock.Any(), "browser-1", "educa_user").Return("", false, nil)
package mocks

// Generate mock for LocalStorage interface from internal/ports package.
// This creates MockLocalStorage with methods for all LocalStorage interface methods:
// GetItem, SetItem, RemoveItems
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=local_storage_mock.go github.com/educa/educa-web/internal/ports LocalStorage
