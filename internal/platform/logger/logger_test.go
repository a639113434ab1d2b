package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
		SetLevel("info")
	})
	return &buf
}

func TestLoggerCarriesRequestID(t *testing.T) {
	buf := capture(t)

	ctx := WithRequestID(context.Background(), "rid-1")
	New(ctx).LogError("form.save", errors.New("boom"))

	assert.Equal(t, "[error] request_id=rid-1 operation=form.save error=boom\n", buf.String())
}

func TestLoggerUnknownRequest(t *testing.T) {
	buf := capture(t)

	New(context.Background()).LogInfof("wire", "mode=%s", "demo")
	assert.Equal(t, "[info] request_id=unknown operation=wire mode=demo\n", buf.String())
}

func TestSetLevelFilters(t *testing.T) {
	buf := capture(t)

	SetLevel("warn")
	l := Background("dispatcher")
	l.LogInfo("tick", "hidden")
	l.LogDebugf("tick", "hidden")
	l.LogWarn("tick", "shown")

	assert.Equal(t, "[warn] request_id=dispatcher operation=tick message=shown\n", buf.String())
}
