package dashboard

import "time"

// SetNow pins the service clock for tests.
func SetNow(s *Service, now func() time.Time) {
	s.now = now
}
