package model

import (
	"encoding/json"
	"time"
)

// Open-log action tags.  The tag records which code path issued the open
// command; the fallback variants mark entries written when the physical hub
// did not confirm the command.
const (
	ActionAjaxLocalOpen         = "ajax_local_open"
	ActionAjaxLocalOpenFallback = "ajax_local_open_fallback"
	ActionSmartLockerOpen       = "smart_locker_open"
	ActionSmartLockerFallback   = "smart_locker_open_fallback"
)

// OpenLogEntry is an immutable audit record appended once per open attempt.
// Entries are never updated or deleted by the service.
//
// UserID is nil for system-initiated actions.  LockerID is nil on the
// customer unlock path, which identifies the locker in Metadata instead;
// the admin path sets it.  Metadata is a free-form JSON object because each
// action kind attaches different detail (booking ids, hub errors, raw hub
// responses), so no single struct shape fits.
type OpenLogEntry struct {
	ID        uint64          // open_logs.id
	UserID    *uint64         // open_logs.user_id (nullable)
	LockerID  *uint64         // open_logs.locker_id (nullable)
	Action    string          // open_logs.action
	Metadata  json.RawMessage // open_logs.metadata (JSON column)
	CreatedAt time.Time       // open_logs.created_at
}
