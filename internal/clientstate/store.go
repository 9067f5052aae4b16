package clientstate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/belugagoods/storefront-backend/internal/cart"
	"github.com/belugagoods/storefront-backend/internal/events"
	"github.com/belugagoods/storefront-backend/pkg/logger"
)

// CurrentVersion tags every record written by this package. Version 1 carts
// kept selection as a separate selected_ids list; version 0 was a bare item
// array.
const CurrentVersion = 2

const (
	KeyCart          = "cart"
	KeyTheme         = "theme"
	KeyLanguage      = "language"
	KeySearchHistory = "searchHistory"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	LanguageKo = "ko"
	LanguageEn = "en"

	MaxSearchHistory = 5
)

var (
	ErrUnsupportedVersion = errors.New("unsupported client state version")
	ErrInvalidTheme       = errors.New("theme must be light or dark")
	ErrInvalidLanguage    = errors.New("language must be ko or en")
)

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

type cartV1 struct {
	Items       []cart.Item `json:"items"`
	SelectedIDs []uint      `json:"selected_ids"`
}

// Preferences are the per-client display settings.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Language: LanguageKo}
}

// Store is the typed view over a Backend.
type Store struct {
	backend Backend
	bus     *events.Bus
}

// NewStore wraps backend. bus may be nil.
func NewStore(backend Backend, bus *events.Bus) *Store {
	return &Store{backend: backend, bus: bus}
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: CurrentVersion, Data: data})
}

// DecodeCart reads any known cart encoding. A record whose amounts do not
// fit is rejected like a malformed one.
func DecodeCart(raw []byte) (*cart.Cart, error) {
	c, err := decodeCart(raw)
	if err != nil {
		return nil, err
	}
	if err := c.CheckAmounts(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeCart(raw []byte) (*cart.Cart, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty cart record")
	}

	if raw[0] == '[' {
		var items []cart.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		for i := range items {
			items[i].Selected = true
		}
		c := &cart.Cart{Items: items}
		c.Normalize()
		return c, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Version {
	case CurrentVersion:
		var c cart.Cart
		if err := json.Unmarshal(env.Data, &c); err != nil {
			return nil, err
		}
		c.Normalize()
		return &c, nil
	case 1:
		var v1 cartV1
		if err := json.Unmarshal(env.Data, &v1); err != nil {
			return nil, err
		}
		selected := make(map[uint]bool, len(v1.SelectedIDs))
		for _, id := range v1.SelectedIDs {
			selected[id] = true
		}
		for i := range v1.Items {
			v1.Items[i].Selected = selected[v1.Items[i].ID]
		}
		c := &cart.Cart{Items: v1.Items}
		c.Normalize()
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
}

// decodeOrInit seeds a first-time client with the sample cart and resets a
// record that cannot be parsed to an empty cart.
func decodeOrInit(clientID string, raw []byte) *cart.Cart {
	if raw == nil {
		return cart.NewSample()
	}
	c, err := DecodeCart(raw)
	if err != nil {
		logger.Error("Failed to parse persisted cart, resetting", err, map[string]interface{}{
			"client_id": clientID,
		})
		return cart.New()
	}
	return c
}

// LoadCart returns the client's cart. The first load persists the sample
// cart; legacy or malformed records are rewritten in the current format.
func (s *Store) LoadCart(ctx context.Context, clientID string) (*cart.Cart, error) {
	raw, err := s.backend.View(ctx, clientID, KeyCart)
	if err != nil {
		return nil, err
	}
	if raw != nil && isCurrent(raw) {
		if c, err := DecodeCart(raw); err == nil {
			return c, nil
		}
	}
	return s.mutateCart(ctx, clientID, nil)
}

func isCurrent(raw []byte) bool {
	var env envelope
	return json.Unmarshal(raw, &env) == nil && env.Version == CurrentVersion
}

// UpdateCart applies fn to the client's cart in one transaction, persists
// the result and publishes a cart change. If fn fails nothing is written.
func (s *Store) UpdateCart(ctx context.Context, clientID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	return s.mutateCart(ctx, clientID, fn)
}

func (s *Store) mutateCart(ctx context.Context, clientID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	var result *cart.Cart
	err := s.backend.Update(ctx, clientID, KeyCart, func(current []byte) ([]byte, error) {
		c := decodeOrInit(clientID, current)
		if fn != nil {
			if err := fn(c); err != nil {
				return nil, err
			}
		}
		result = c
		return encode(c)
	})
	if err != nil {
		return nil, err
	}

	if fn != nil && s.bus != nil {
		s.bus.PublishCartChanged(events.CartChanged{
			ClientID:  clientID,
			ItemCount: len(result.Items),
			Quantity:  result.TotalQuantity(),
		})
	}
	return result, nil
}

func (s *Store) loadString(ctx context.Context, clientID, key string) (string, bool, error) {
	raw, err := s.backend.View(ctx, clientID, key)
	if err != nil || raw == nil {
		return "", false, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Version == CurrentVersion {
		var v string
		if err := json.Unmarshal(env.Data, &v); err == nil {
			return v, true, nil
		}
	}
	// Version 0 stored the bare string.
	return strings.Trim(string(raw), "\" \n"), true, nil
}

func (s *Store) saveValue(ctx context.Context, clientID, key string, v interface{}) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	return s.backend.Update(ctx, clientID, key, func([]byte) ([]byte, error) {
		return data, nil
	})
}

// LoadPreferences returns theme and language, falling back to defaults for
// missing or unrecognised values.
func (s *Store) LoadPreferences(ctx context.Context, clientID string) (Preferences, error) {
	return s.LoadPreferencesWithDefaults(ctx, clientID, DefaultPreferences())
}

// LoadPreferencesWithDefaults is LoadPreferences with caller-chosen fallbacks,
// e.g. a language negotiated from the request.
func (s *Store) LoadPreferencesWithDefaults(ctx context.Context, clientID string, prefs Preferences) (Preferences, error) {
	theme, ok, err := s.loadString(ctx, clientID, KeyTheme)
	if err != nil {
		return prefs, err
	}
	if ok && validTheme(theme) {
		prefs.Theme = theme
	} else if ok {
		logger.Warn("Ignoring invalid persisted theme", map[string]interface{}{"client_id": clientID, "theme": theme})
	}

	lang, ok, err := s.loadString(ctx, clientID, KeyLanguage)
	if err != nil {
		return prefs, err
	}
	if ok && validLanguage(lang) {
		prefs.Language = lang
	} else if ok {
		logger.Warn("Ignoring invalid persisted language", map[string]interface{}{"client_id": clientID, "language": lang})
	}
	return prefs, nil
}

// SavePreferences writes the non-empty fields of prefs.
func (s *Store) SavePreferences(ctx context.Context, clientID string, prefs Preferences) (Preferences, error) {
	if prefs.Theme != "" && !validTheme(prefs.Theme) {
		return Preferences{}, ErrInvalidTheme
	}
	if prefs.Language != "" && !validLanguage(prefs.Language) {
		return Preferences{}, ErrInvalidLanguage
	}
	if prefs.Theme != "" {
		if err := s.saveValue(ctx, clientID, KeyTheme, prefs.Theme); err != nil {
			return Preferences{}, err
		}
	}
	if prefs.Language != "" {
		if err := s.saveValue(ctx, clientID, KeyLanguage, prefs.Language); err != nil {
			return Preferences{}, err
		}
	}
	return s.LoadPreferences(ctx, clientID)
}

func validTheme(v string) bool    { return v == ThemeLight || v == ThemeDark }
func validLanguage(v string) bool { return v == LanguageKo || v == LanguageEn }

func decodeHistory(clientID string, raw []byte) []string {
	if raw == nil {
		return []string{}
	}
	var terms []string
	var env envelope
	err := json.Unmarshal(raw, &env)
	if err == nil && env.Version == CurrentVersion {
		err = json.Unmarshal(env.Data, &terms)
	} else {
		err = json.Unmarshal(raw, &terms)
	}
	if err != nil {
		logger.Error("Failed to parse search history, resetting", err, map[string]interface{}{"client_id": clientID})
		return []string{}
	}
	if len(terms) > MaxSearchHistory {
		terms = terms[:MaxSearchHistory]
	}
	return terms
}

// SearchHistory returns recent searches, most recent first.
func (s *Store) SearchHistory(ctx context.Context, clientID string) ([]string, error) {
	raw, err := s.backend.View(ctx, clientID, KeySearchHistory)
	if err != nil {
		return nil, err
	}
	return decodeHistory(clientID, raw), nil
}

// AddSearchTerm moves term to the front, dropping duplicates and anything
// past MaxSearchHistory. Blank terms are ignored.
func (s *Store) AddSearchTerm(ctx context.Context, clientID, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	return s.updateHistory(ctx, clientID, func(terms []string) []string {
		if term == "" {
			return terms
		}
		out := []string{term}
		for _, t := range terms {
			if t != term && len(out) < MaxSearchHistory {
				out = append(out, t)
			}
		}
		return out
	})
}

// RemoveSearchTerm deletes one entry.
func (s *Store) RemoveSearchTerm(ctx context.Context, clientID, term string) ([]string, error) {
	return s.updateHistory(ctx, clientID, func(terms []string) []string {
		out := terms[:0]
		for _, t := range terms {
			if t != term {
				out = append(out, t)
			}
		}
		return out
	})
}

// ClearSearchHistory removes every entry.
func (s *Store) ClearSearchHistory(ctx context.Context, clientID string) error {
	return s.backend.Update(ctx, clientID, KeySearchHistory, func([]byte) ([]byte, error) {
		return nil, nil
	})
}

func (s *Store) updateHistory(ctx context.Context, clientID string, fn func([]string) []string) ([]string, error) {
	var result []string
	err := s.backend.Update(ctx, clientID, KeySearchHistory, func(current []byte) ([]byte, error) {
		result = fn(decodeHistory(clientID, current))
		return encode(result)
	})
	return result, err
}
