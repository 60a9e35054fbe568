package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("http status %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

func TestIsTransient(t *testing.T) {
	t.Parallel()

	transient := []error{
		errors.New("dial tcp: connection refused"),
		fmt.Errorf("get status: %w", errors.New("read: connection reset by peer")),
		fmt.Errorf("read response: %w", io.EOF),
		errors.New("429 Too Many Requests"),
		statusErr(503),
		fmt.Errorf("wrapped: %w", statusErr(429)),
	}
	for _, err := range transient {
		require.True(t, IsTransient(err), err.Error())
	}

	final := []error{
		nil,
		context.Canceled,
		fmt.Errorf("poll: %w", context.DeadlineExceeded),
		errors.New("invalid params: signature"),
		statusErr(400),
		io.ErrUnexpectedEOF,
		fmt.Errorf("decode getSignatureStatuses: %w", io.ErrUnexpectedEOF),
		errors.New("rpc call getSignatureStatuses() on https://api.devnet.solana.com: unexpected EOF"),
	}
	for _, err := range final {
		require.False(t, IsTransient(err), "%v", err)
	}
}
