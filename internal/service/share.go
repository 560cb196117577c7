package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/errors"
)

// ShareService builds the WhatsApp share message summarizing the most recent
// completion batch.
type ShareService struct {
	tracker *TrackerService
	logger  *slog.Logger
}

// NewShareService creates a new share service.
func NewShareService(tracker *TrackerService, logger *slog.Logger) *ShareService {
	return &ShareService{
		tracker: tracker,
		logger:  logger,
	}
}

// Share is a ready-to-open WhatsApp share link with its plain-text message.
type Share struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// BuildShare composes the share message for the active mode's most recent
// completion batch. Fails with a not-found error when nothing has been
// completed yet.
func (s *ShareService) BuildShare(ctx context.Context) (*Share, error) {
	snap, err := s.tracker.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if snap.Stats.LastCompleted == nil {
		return nil, errors.NotFound("no completed items to share")
	}

	members := domain.BatchMembers(snap.Items, snap.Stats.LastCompleted.CompletionBatchID)
	if len(members) == 0 {
		members = []domain.Item{*snap.Stats.LastCompleted}
	}

	message := shareMessage(snap.Mode, members, snap.Stats.RemainingCount)
	return &Share{
		Message: message,
		URL:     whatsappURL(message),
	}, nil
}

// Arabic unit names per mode.
func unitNames(mode domain.Mode) (plural, singular string) {
	if mode == domain.ModeJuz {
		return "الأجزاء", "الجزء"
	}
	return "الأحزاب", "الحزب"
}

// shareMessage renders the three-line share text: what was completed, when
// the last reading happened, and how much remains.
func shareMessage(mode domain.Mode, members []domain.Item, remaining int) string {
	plural, singular := unitNames(mode)
	last := members[len(members)-1]

	var b strings.Builder

	if len(members) > 1 {
		fmt.Fprintf(&b, "تم بحمد الله وتوفيقه إكمال %s من %d إلى %d.", plural, members[0].Number, last.Number)
	} else {
		fmt.Fprintf(&b, "تم بحمد الله وتوفيقه إكمال %s رقم %d.", singular, last.Number)
	}

	if completedAt, err := time.Parse(time.RFC3339, last.CompletedTime); err == nil {
		fmt.Fprintf(&b, "\nآخر قراءة وحفظ كانت في يوم %s، بتاريخ %s، والساعة %s.",
			last.Day,
			completedAt.Format("02/01/2006"),
			completedAt.Format("15:04"),
		)
	}

	fmt.Fprintf(&b, "\n%s المتبقية: %d.", plural, remaining)
	return b.String()
}

// whatsappURL wraps a message in a wa.me link. Spaces are percent-encoded
// rather than '+' so the text survives WhatsApp's parsing.
func whatsappURL(message string) string {
	return "https://wa.me/?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
