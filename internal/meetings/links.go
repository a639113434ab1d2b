package meetings

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

const meetBaseURL = "https://meet.google.com/"

// LinkGenerator produces a conference link for a newly created meeting.
type LinkGenerator interface {
	Generate(ctx context.Context, m domain.Meeting) (meetID, link string, err error)
}

// StubLinks fabricates Meet-shaped links without calling Google.
type StubLinks struct{}

func (StubLinks) Generate(_ context.Context, _ domain.Meeting) (string, string, error) {
	id, err := randomMeetID()
	if err != nil {
		return "", "", err
	}
	return id, meetBaseURL + id, nil
}

// randomMeetID returns three groups of four lowercase letters, e.g. abcd-efgh-ijkl.
func randomMeetID() (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	max := big.NewInt(int64(len(letters)))

	groups := make([]string, 3)
	for g := range groups {
		var b strings.Builder
		for i := 0; i < 4; i++ {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", err
			}
			b.WriteByte(letters[n.Int64()])
		}
		groups[g] = b.String()
	}
	return strings.Join(groups, "-"), nil
}

// JoinLink picks the link a client should use: the zoom room when zoom is enabled
// and configured, otherwise the Meet room (or a fresh one).
func JoinLink(settings domain.IntegrationSettings, m domain.Meeting) string {
	if settings.ZoomEnabled && settings.ZoomLink != "" {
		return settings.ZoomLink
	}
	if m.Link != "" {
		return m.Link
	}
	id := m.MeetID
	if id == "" {
		id = "new"
	}
	return meetBaseURL + id
}
