package translation

import "golang.org/x/text/language"

// Option customises service
type Option func(s *Service)

// WithCurrentUser sets current admin user resolver
func WithCurrentUser(resolver UserResolver) Option {
	return func(s *Service) {
		s.currentUser = resolver
	}
}

// WithSessionUser sets session user resolver
func WithSessionUser(resolver UserResolver) Option {
	return func(s *Service) {
		s.sessionUser = resolver
	}
}

// WithDefaultLanguage sets system default language, invalid tags are ignored
func WithDefaultLanguage(lang string) Option {
	return func(s *Service) {
		if tag, err := language.Parse(lang); err == nil {
			s.defaultLanguage = tag
		}
	}
}
