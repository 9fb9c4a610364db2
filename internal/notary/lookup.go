package notary

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a transport-level lookup failure (registry down,
// timeout). The rule engine degrades to NOTARY_VERIFICATION_UNAVAILABLE on it
// instead of passing or failing the commission rule.
var ErrUnavailable = errors.New("notary registry unavailable")

// CommissionStatus is the registry's answer about one commission number.
type CommissionStatus string

const (
	StatusActive   CommissionStatus = "ACTIVE"
	StatusExpired  CommissionStatus = "EXPIRED"
	StatusNotFound CommissionStatus = "NOT_FOUND"
)

// Commission is a registry record as of the queried date.
type Commission struct {
	Number         string
	Status         CommissionStatus
	ExpirationDate time.Time
}

// Lookup is the injected capability for verifying notary commissions. The
// engine makes no assumption about the transport behind it; a test double
// must be substitutable. Implementations return ErrUnavailable (possibly
// wrapped) for transport failures and a NOT_FOUND record, not an error, for
// unknown commission numbers.
type Lookup interface {
	LookupCommission(ctx context.Context, commissionNumber string, asOf time.Time) (Commission, error)
}
