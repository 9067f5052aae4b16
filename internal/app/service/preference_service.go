package service

import (
	"context"

	"github.com/belugagoods/storefront-backend/internal/clientstate"
	"golang.org/x/text/language"
)

var (
	supportedLanguages = []string{clientstate.LanguageKo, clientstate.LanguageEn}
	languageMatcher    = language.NewMatcher([]language.Tag{language.Korean, language.English})
)

// NegotiateLanguage picks ko or en from an Accept-Language header, preferring
// ko when nothing matches.
func NegotiateLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return clientstate.LanguageKo
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return clientstate.LanguageKo
	}
	return supportedLanguages[index]
}

type PreferenceService interface {
	GetPreferences(ctx context.Context, clientID, acceptLanguage string) (clientstate.Preferences, error)
	UpdatePreferences(ctx context.Context, clientID string, prefs clientstate.Preferences) (clientstate.Preferences, error)
	SearchHistory(ctx context.Context, clientID string) ([]string, error)
	AddSearchTerm(ctx context.Context, clientID, term string) ([]string, error)
	RemoveSearchTerm(ctx context.Context, clientID, term string) ([]string, error)
	ClearSearchHistory(ctx context.Context, clientID string) error
}

type preferenceService struct {
	store *clientstate.Store
}

func NewPreferenceService(store *clientstate.Store) PreferenceService {
	return &preferenceService{store: store}
}

// GetPreferences uses the browser's language until the client picks one.
func (s *preferenceService) GetPreferences(ctx context.Context, clientID, acceptLanguage string) (clientstate.Preferences, error) {
	defaults := clientstate.DefaultPreferences()
	defaults.Language = NegotiateLanguage(acceptLanguage)
	return s.store.LoadPreferencesWithDefaults(ctx, clientID, defaults)
}

func (s *preferenceService) UpdatePreferences(ctx context.Context, clientID string, prefs clientstate.Preferences) (clientstate.Preferences, error) {
	return s.store.SavePreferences(ctx, clientID, prefs)
}

func (s *preferenceService) SearchHistory(ctx context.Context, clientID string) ([]string, error) {
	return s.store.SearchHistory(ctx, clientID)
}

func (s *preferenceService) AddSearchTerm(ctx context.Context, clientID, term string) ([]string, error) {
	return s.store.AddSearchTerm(ctx, clientID, term)
}

func (s *preferenceService) RemoveSearchTerm(ctx context.Context, clientID, term string) ([]string, error) {
	return s.store.RemoveSearchTerm(ctx, clientID, term)
}

func (s *preferenceService) ClearSearchHistory(ctx context.Context, clientID string) error {
	return s.store.ClearSearchHistory(ctx, clientID)
}
