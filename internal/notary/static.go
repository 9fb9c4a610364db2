package notary

import (
	"context"
	"time"
)

// StaticRegistry is an in-memory Lookup for offline runs and tests: a fixed
// map of commission number to expiration date.
type StaticRegistry struct {
	commissions map[string]time.Time
}

func NewStaticRegistry(commissions map[string]time.Time) *StaticRegistry {
	m := make(map[string]time.Time, len(commissions))
	for k, v := range commissions {
		m[k] = v
	}
	return &StaticRegistry{commissions: m}
}

func (r *StaticRegistry) LookupCommission(_ context.Context, commissionNumber string, asOf time.Time) (Commission, error) {
	exp, ok := r.commissions[commissionNumber]
	if !ok {
		return Commission{Number: commissionNumber, Status: StatusNotFound}, nil
	}
	status := StatusActive
	if exp.Before(asOf) {
		status = StatusExpired
	}
	return Commission{Number: commissionNumber, Status: status, ExpirationDate: exp}, nil
}

// UnavailableLookup always reports the registry as unreachable. It is the
// honest default when no roster is configured: the commission rule degrades
// to NOTARY_VERIFICATION_UNAVAILABLE instead of inventing an answer.
type UnavailableLookup struct{}

func (UnavailableLookup) LookupCommission(context.Context, string, time.Time) (Commission, error) {
	return Commission{}, ErrUnavailable
}
