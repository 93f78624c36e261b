// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package connection

import (
	"context"
	"fmt"

	"github.com/olegiv/noorshare/internal/model"
)

// Connector performs the platform side of a connect or disconnect.
// Implementations must honour ctx cancellation.
type Connector interface {
	Connect(ctx context.Context, platform model.Platform) (handle string, err error)
	Disconnect(ctx context.Context, platform model.Platform) error
}

// MockConnector simulates a platform. It never fails and has no network effect.
type MockConnector struct{}

// Connect returns the placeholder handle for platform.
func (MockConnector) Connect(_ context.Context, platform model.Platform) (string, error) {
	return PlaceholderHandle(platform), nil
}

// Disconnect does nothing.
func (MockConnector) Disconnect(context.Context, model.Platform) error {
	return nil
}

// PlaceholderHandle is the handle a mock connection receives.
func PlaceholderHandle(platform model.Platform) string {
	return fmt.Sprintf("Demo %s User", platform)
}
