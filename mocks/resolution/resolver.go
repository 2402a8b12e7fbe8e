package resolution_mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"editor-media-sync/internal/resolution"
)

type Resolver struct {
	mock.Mock
}

func (m *Resolver) ResolvePlayableURL(ctx context.Context, token string) (*resolution.PlaybackInfo, error) {
	ret := m.Called(ctx, token)

	var r0 *resolution.PlaybackInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*resolution.PlaybackInfo)
	}
	return r0, ret.Error(1)
}
