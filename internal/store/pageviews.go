package store

import (
	"context"
	"fmt"
)

// PageView is one telemetry record for the admin traffic dashboard.
type PageView struct {
	PagePath  string
	VisitorID string
	SessionID string
	UserAgent string
	Referrer  string
}

// InsertPageView records a page view. Empty session, user agent, and
// referrer values are stored as NULL.
func (s *Store) InsertPageView(ctx context.Context, view PageView) error {
	var missing []string
	if view.PagePath == "" {
		missing = append(missing, "pagePath")
	}
	if view.VisitorID == "" {
		missing = append(missing, "visitorId")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO page_views (page_path, visitor_id, session_id, user_agent, referrer)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
	`, view.PagePath, view.VisitorID, view.SessionID, view.UserAgent, view.Referrer); err != nil {
		return fmt.Errorf("insert page view: %w", err)
	}

	return nil
}
