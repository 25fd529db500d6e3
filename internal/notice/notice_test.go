package notice_test

import (
	"bytes"
	"testing"

	"github.com/sensai-ai/hubkit/internal/notice"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := notice.NewWriter(&buf, zaptest.NewLogger(t))

	w.Notify(notice.LoginRequired)
	w.Notify(notice.VoteFailed)
	w.Notify(notice.Notice{Kind: notice.KindInfo, Message: "Comment added"})

	assert.Equal(t,
		"login required: Please log in to vote (run `hubctl login`)\n"+
			"error: Failed to register your vote. Please try again.\n"+
			"Comment added\n",
		buf.String())
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r notice.Recorder
	r.Notify(notice.VoteFailed)

	got := r.Notices()
	assert.Equal(t, []notice.Notice{notice.VoteFailed}, got)

	// Returned slice is a copy
	got[0].Message = "changed"
	assert.Equal(t, notice.VoteFailed, r.Notices()[0])
}

func TestKindNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"info", "error", "login_required"}, notice.KindStrings())

	kind, err := notice.KindString("login_required")
	assert.NoError(t, err)
	assert.Equal(t, notice.KindLoginRequired, kind)

	assert.Equal(t, "Kind(7)", notice.Kind(7).String())
	assert.False(t, notice.Kind(7).IsAKind())
}
