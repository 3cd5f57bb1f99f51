package redisx

import "time"

const (
	// Session token -> user id: session:{token}
	KeySession = "session:%s"

	// Cached dashboard JSON per user: dashboard:{user_id}
	KeyDashboard = "dashboard:%s"

	// Dedup event processing in consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Rolling audit counters: audit:count:{user_id}
	KeyAuditCount = "audit:count:%s"
)

var (
	TTLSession   = 24 * time.Hour
	TTLDashboard = time.Minute
	TTLDedup     = 48 * time.Hour
)
