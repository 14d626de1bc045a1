package cache

import (
	"strconv"

	"optibill-backend/internal/domain"
)

// Cache keys are namespaced by a literal class prefix and parameterized by
// the canonical (sorted, comma-joined) scope, so two callers with the same
// branch set always share keys and different sets never collide:
//
//	allOrders:b1,b2
//	order:7:b1,b2
//	pendingPayments:b1,b2
//	pendingPayment:7:b1,b2

const keySep = ":"

func AllOrdersKey(scope domain.Scope) string {
	return "allOrders" + keySep + scope.Canonical()
}

func OrderKey(scope domain.Scope, billNo int) string {
	return "order" + keySep + strconv.Itoa(billNo) + keySep + scope.Canonical()
}

func PendingOrdersKey(scope domain.Scope) string {
	return "pendingPayments" + keySep + scope.Canonical()
}

func PendingOrderKey(scope domain.Scope, billNo int) string {
	return "pendingPayment" + keySep + strconv.Itoa(billNo) + keySep + scope.Canonical()
}
