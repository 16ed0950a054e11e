package client_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/savvy-app/savvy/client"
)

func TestErrorInfoMessage(t *testing.T) {
	withStatus := &client.ErrorInfo{Message: "Request failed", Status: 500}
	require.Equal(t, "Request failed (status 500)", withStatus.Error())

	transport := &client.ErrorInfo{Message: "Network error"}
	require.Equal(t, "Network error", transport.Error())
}

func TestAsErrorInfoSeesThroughWrapping(t *testing.T) {
	base := &client.ErrorInfo{Message: "Request failed", Status: 502}

	info, ok := client.AsErrorInfo(base)
	require.True(t, ok)
	require.Equal(t, base, info)

	info, ok = client.AsErrorInfo(fmt.Errorf("refresh: %w", base))
	require.True(t, ok)
	require.Equal(t, base, info)

	info, ok = client.AsErrorInfo(errors.Wrap(base, "refresh"))
	require.True(t, ok)
	require.Equal(t, base, info)
}

func TestAsErrorInfoRejectsForeignErrors(t *testing.T) {
	_, ok := client.AsErrorInfo(errors.New("plain"))
	require.False(t, ok)

	_, ok = client.AsErrorInfo(nil)
	require.False(t, ok)
}
