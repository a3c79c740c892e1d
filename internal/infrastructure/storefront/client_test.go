package storefront

import (
	"context"
	"fmt"
)

// stubRelay feeds canned payloads to the client, one per Fetch call.
type stubRelay struct {
	payloads []any
	errs     []error
	calls    int
	targets  []string
	tolerate []bool
}

func (s *stubRelay) Fetch(_ context.Context, target string, tolerateNotFound bool) (any, error) {
	idx := s.calls
	s.calls++
	s.targets = append(s.targets, target)
	s.tolerate = append(s.tolerate, tolerateNotFound)

	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx < len(s.payloads) {
		return s.payloads[idx], nil
	}
	return nil, fmt.Errorf("unexpected call %d", idx)
}
