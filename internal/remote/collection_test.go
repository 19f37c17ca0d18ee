package remote

import (
	"errors"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dkarlovs/habitsync/internal/common"
)

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"not found", status.Error(codes.NotFound, "missing"), common.ErrNotFound},
		{"unavailable", status.Error(codes.Unavailable, "down"), common.ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), common.ErrUnavailable},
		{"resource exhausted", status.Error(codes.ResourceExhausted, "quota"), common.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeError(tt.in)
			assert.True(t, errors.Is(got, tt.want), "got %v", got)
		})
	}
}

func TestNormalizeError_PassesThroughUnmappedErrors(t *testing.T) {
	in := status.Error(codes.InvalidArgument, "bad request")
	assert.Equal(t, in, normalizeError(in))

	plain := errors.New("not a status error")
	assert.Equal(t, plain, normalizeError(plain))

	assert.NoError(t, normalizeError(nil))
}

func TestWithoutNils_DropsNilFields(t *testing.T) {
	in := map[string]any{
		"name":        "Drink water",
		"nextTrigger": nil,
		"sessionQty":  int64(8),
	}

	out := withoutNils(in)

	require.Len(t, out, 2)
	assert.Equal(t, "Drink water", out["name"])
	assert.Equal(t, int64(8), out["sessionQty"])
	_, present := out["nextTrigger"]
	assert.False(t, present)

	// Input stays untouched.
	assert.Len(t, in, 3)
}

func TestWithDeleteSentinels_ReplacesNilFields(t *testing.T) {
	in := map[string]any{
		"name":        "Drink water",
		"nextTrigger": nil,
	}

	out := withDeleteSentinels(in)

	require.Len(t, out, 2)
	assert.Equal(t, "Drink water", out["name"])
	assert.Equal(t, firestore.Delete, out["nextTrigger"])

	assert.Nil(t, in["nextTrigger"])
}

func TestCollectionPath(t *testing.T) {
	c := NewCollection(nil, "users/u1/habits")
	assert.Equal(t, "users/u1/habits", c.Path())
}
