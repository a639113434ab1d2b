package meetings

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

var meetIDPattern = regexp.MustCompile(`^[a-z]{4}-[a-z]{4}-[a-z]{4}$`)

func TestStubLinks(t *testing.T) {
	id, link, err := StubLinks{}.Generate(context.Background(), domain.Meeting{})
	require.NoError(t, err)
	assert.Regexp(t, meetIDPattern, id)
	assert.Equal(t, "https://meet.google.com/"+id, link)

	other, _, err := StubLinks{}.Generate(context.Background(), domain.Meeting{})
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestJoinLink(t *testing.T) {
	settings := domain.DefaultIntegrationSettings()

	assert.Equal(t, "https://meet.google.com/new", JoinLink(settings, domain.Meeting{}))
	assert.Equal(t, "https://meet.google.com/abc-def-ghi", JoinLink(settings, domain.Meeting{MeetID: "abc-def-ghi"}))

	settings.ZoomEnabled = true
	assert.Equal(t, "https://meet.google.com/abc-def-ghi", JoinLink(settings, domain.Meeting{MeetID: "abc-def-ghi"}), "zoom without a link falls back")

	settings.ZoomLink = "https://zoom.us/j/123"
	assert.Equal(t, "https://zoom.us/j/123", JoinLink(settings, domain.Meeting{MeetID: "abc-def-ghi"}))
}
