package remote

import (
	"github.com/dkarlovs/habitsync/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// normalizeError maps gRPC status codes coming out of the Firestore client
// onto the shared sentinels. Errors without a matching category pass through
// unchanged.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return common.ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return common.ErrUnavailable
	default:
		return err
	}
}
