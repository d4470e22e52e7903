// Package mocks provides gomock mocks for the ports of the Intego360 UI.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	identity := mocks.NewMockIdentityAPI(ctrl)
//	identity.EXPECT().CurrentUser(gomock.Any(), "access").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_api_mock.go github.com/intego360/intego-ui/internal/ports IdentityAPI,ProfileUpdater
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_backend_mock.go github.com/intego360/intego-ui/internal/ports TokenBackend
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sector_data_mock.go github.com/intego360/intego-ui/internal/ports SectorDataAPI
