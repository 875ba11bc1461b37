package services

import (
	"context"
)

// DeleteAccountResult lists what was removed and which hosted images the
// caller should clean up on the image host side.
type DeleteAccountResult struct {
	ImageURLs      []string `json:"image_urls"`
	ReportsDeleted int      `json:"reports_deleted"`
}

// AccountService is the hook invoked when the owning auth account is
// deleted externally: it removes the user's reports and profile document.
// Chat messages stay — the radio feed is append-only.
type AccountService struct {
	reports  ReportService
	profiles ProfileService
}

func NewAccountService(reports ReportService, profiles ProfileService) *AccountService {
	return &AccountService{reports: reports, profiles: profiles}
}

func (s *AccountService) DeleteAccount(ctx context.Context, userID string) (*DeleteAccountResult, error) {
	imageURLs, deleted, err := s.reports.DeleteByReporter(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.profiles.Delete(ctx, userID)
	if err != nil {
		return nil, err
	}
	if avatarURL != "" {
		imageURLs = append(imageURLs, avatarURL)
	}

	return &DeleteAccountResult{
		ImageURLs:      imageURLs,
		ReportsDeleted: int(deleted),
	}, nil
}
