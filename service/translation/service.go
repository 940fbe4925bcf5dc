// Package translation resolves admin translations for the language of the
// current request: context locale, current user, session user, then the
// configured default language.
package translation

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/markflow/internal/clock"
	"github.com/viant/markflow/model"
	"github.com/viant/markflow/service/dao"
	"github.com/viant/markflow/service/dao/store"
	"golang.org/x/text/language"
)

// User represents a user with a preferred language
type User interface {
	Language() string
}

// UserResolver returns a user for the request context
type UserResolver func(ctx context.Context) (User, bool)

type localeKey struct{}

// WithLocale returns context carrying locale
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns locale carried by context
func LocaleFromContext(ctx context.Context) (string, bool) {
	locale, ok := ctx.Value(localeKey{}).(string)
	return locale, ok && locale != ""
}

// Service represents translation service
type Service struct {
	dao             dao.Service[string, Translation]
	currentUser     UserResolver
	sessionUser     UserResolver
	defaultLanguage language.Tag
}

// Language returns language for the request context
func (s *Service) Language(ctx context.Context) string {
	if locale, ok := LocaleFromContext(ctx); ok {
		return locale
	}
	for _, resolver := range []UserResolver{s.currentUser, s.sessionUser} {
		if resolver == nil {
			continue
		}
		if user, ok := resolver(ctx); ok && user != nil && user.Language() != "" {
			return user.Language()
		}
	}
	return s.defaultLanguage.String()
}

// ByKey returns translation; a missing key is created when create is set,
// or returned with the key as value of every language when returnKeyIfEmpty is set.
func (s *Service) ByKey(ctx context.Context, key string, create, returnKeyIfEmpty bool) (*Translation, error) {
	ret, err := s.dao.Load(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, dao.ErrNotFound):
		ret = &Translation{Key: key, Values: map[string]string{}}
		if create {
			ret.CreatedAt = clock.Now()
			ret.ModifiedAt = ret.CreatedAt
			if err = s.dao.Save(ctx, ret); err != nil {
				return nil, fmt.Errorf("failed to create translation %v: %w", key, err)
			}
		} else if !returnKeyIfEmpty {
			return nil, model.NewNotFoundError("translation", key)
		}
	default:
		return nil, err
	}
	if returnKeyIfEmpty {
		clone := *ret
		clone.fallback = key
		return &clone, nil
	}
	return ret, nil
}

// ByKeyLocalized returns translation value in the request language
func (s *Service) ByKeyLocalized(ctx context.Context, key string, create, returnKeyIfEmpty bool) (string, error) {
	lang := s.Language(ctx)
	translation, err := s.ByKey(ctx, key, create, returnKeyIfEmpty)
	if err != nil {
		return "", err
	}
	return translation.Translation(lang), nil
}

// Add sets translation value
func (s *Service) Add(ctx context.Context, key, lang, value string) error {
	translation, err := s.ByKey(ctx, key, true, false)
	if err != nil {
		return err
	}
	if err = translation.Set(lang, value); err != nil {
		return fmt.Errorf("translation %v: invalid language %q: %w", key, lang, err)
	}
	translation.ModifiedAt = clock.Now()
	return s.dao.Save(ctx, translation)
}

// NewMemoryStore creates in-memory translation store
func NewMemoryStore() *store.MemoryStore[string, Translation] {
	return store.NewMemoryStore[string, Translation](func(t *Translation) string { return t.Key })
}

// New creates translation service
func New(store dao.Service[string, Translation], opts ...Option) *Service {
	ret := &Service{dao: store, defaultLanguage: language.English}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.dao == nil {
		ret.dao = NewMemoryStore()
	}
	return ret
}
