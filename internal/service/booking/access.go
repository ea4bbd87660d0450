package booking

import (
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
)

// CanAccess decides whether a caller may view or mutate a booking. Any
// partner-imported booking (and anything owned by the import owner) is open
// to every authenticated caller so partner systems can reconcile records they
// created; that permissiveness is a deliberate integration trade-off.
func CanAccess(b *domain.Booking, caller auth.Caller, importOwnerID int64) bool {
	if b == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	if b.OwnerUserID == caller.UserID {
		return true
	}
	if b.OwnerUserID == importOwnerID {
		return true
	}
	return b.IsImported()
}
