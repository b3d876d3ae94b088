package safe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/caseline/pkg/utils/logging"
	"github.com/secmon-lab/caseline/pkg/utils/safe"
)

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	safe.Close(ctx, nil)
	gt.S(t, buf.String()).Equal("")

	safe.Close(ctx, failingCloser{})
	gt.S(t, buf.String()).Contains("close failed")
}

func TestWrite(t *testing.T) {
	var logBuf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&logBuf, nil)))

	var out bytes.Buffer
	safe.Write(ctx, &out, []byte("ok"))
	gt.S(t, out.String()).Equal("ok")

	safe.Write(ctx, nil, []byte("ignored"))
	safe.Write(ctx, failingWriter{}, []byte("lost"))
	gt.S(t, logBuf.String()).Contains("write failed")
}
