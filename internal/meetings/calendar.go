package meetings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

// GoogleCalendar creates a calendar event with a Meet conference for each meeting.
type GoogleCalendar struct {
	svc        *calendar.Service
	calendarID string
}

// NewGoogleCalendar uses application default credentials.
func NewGoogleCalendar(ctx context.Context, calendarID string) (*GoogleCalendar, error) {
	creds, err := google.FindDefaultCredentials(ctx, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("find google credentials: %w", err)
	}
	var opts []option.ClientOption
	if creds.JSON != nil {
		opts = append(opts, option.WithCredentialsJSON(creds.JSON))
	} else {
		opts = append(opts, option.WithCredentials(creds))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar.NewService: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID}, nil
}

func (g *GoogleCalendar) Generate(ctx context.Context, m domain.Meeting) (string, string, error) {
	duration := time.Duration(m.Duration) * time.Minute
	if duration <= 0 {
		duration = time.Hour
	}
	summary := "Wedding consultation"
	if m.MeetingType != "" {
		summary = strings.ToUpper(m.MeetingType[:1]) + m.MeetingType[1:] + " meeting"
	}
	if m.ClientName != "" {
		summary += " with " + m.ClientName
	}

	event := &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{DateTime: m.ScheduledFor.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: m.ScheduledFor.Add(duration).Format(time.RFC3339)},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", "", fmt.Errorf("insert calendar event: %w", err)
	}
	if created.HangoutLink == "" {
		return "", "", fmt.Errorf("calendar event %s has no meet link", created.Id)
	}

	return strings.TrimPrefix(created.HangoutLink, meetBaseURL), created.HangoutLink, nil
}
