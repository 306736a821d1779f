package lancache

import "time"

const lancacheTimestampLayout = time.RFC3339

// CacheInfo mirrors the payload returned by /api/cache/info.
type CacheInfo struct {
	TotalBytes int64 `json:"totalBytes"`
	UsedBytes  int64 `json:"usedBytes"`
	FreeBytes  int64 `json:"freeBytes"`
	HitBytes   int64 `json:"hitBytes"`
	MissBytes  int64 `json:"missBytes"`
}

// HitRatio returns the fraction of served bytes that came from cache,
// or 0 when nothing has been served yet.
func (c CacheInfo) HitRatio() float64 {
	total := c.HitBytes + c.MissBytes
	if total <= 0 {
		return 0
	}
	return float64(c.HitBytes) / float64(total)
}

// ServiceStats aggregates byte counters for one upstream service
// (steam, epic, blizzard, ...).
type ServiceStats struct {
	Service    string `json:"service"`
	TotalBytes int64  `json:"totalBytes"`
	HitBytes   int64  `json:"hitBytes"`
	MissBytes  int64  `json:"missBytes"`
	Downloads  int    `json:"downloads"`
}

// Download describes one client download session assembled from the access
// log. Sessions are closed after a gap in activity, so LastActivityAt may
// keep advancing while a download is live.
type Download struct {
	ID             int64  `json:"id"`
	Service        string `json:"service"`
	ClientIP       string `json:"clientIp"`
	Game           string `json:"game"`
	AppID          uint32 `json:"appId"`
	HitBytes       int64  `json:"hitBytes"`
	MissBytes      int64  `json:"missBytes"`
	StartedAt      string `json:"startedAt"`
	LastActivityAt string `json:"lastActivityAt"`
	Active         bool   `json:"active"`
}

// StartedTime returns StartedAt as a time.Time, zero when unparseable.
func (d Download) StartedTime() time.Time {
	return parseTime(d.StartedAt)
}

// LastActivityTime returns LastActivityAt as a time.Time, zero when unparseable.
func (d Download) LastActivityTime() time.Time {
	return parseTime(d.LastActivityAt)
}

// SessionPrefs are the server-held per-session display preferences. Every
// field is locally editable and therefore subject to optimistic correction
// when a snapshot arrives.
type SessionPrefs struct {
	UseLocalTimezone       bool `json:"useLocalTimezone"`
	Use24HourFormat        bool `json:"use24HourFormat"`
	HideUnknownGames       bool `json:"hideUnknownGames"`
	RefreshIntervalSeconds int  `json:"refreshIntervalSeconds"`
}

// Snapshot is the full state the server pushes over the websocket channel
// and that the fallback poller reassembles from the REST endpoints.
type Snapshot struct {
	Cache     CacheInfo      `json:"cache"`
	Services  []ServiceStats `json:"services"`
	Downloads []Download     `json:"downloads"`
	Prefs     SessionPrefs   `json:"prefs"`
}

// Operation reports the state of a long-running maintenance job. The server
// assigns the operationId when the job is accepted.
type Operation struct {
	OperationID     string  `json:"operationId"`
	Status          string  `json:"status"`
	PercentComplete float64 `json:"percentComplete"`
	Message         string  `json:"message"`
	Success         bool    `json:"success"`
	Cancelled       bool    `json:"cancelled"`
}

// Done reports whether the operation has reached a terminal status.
func (o Operation) Done() bool {
	switch o.Status {
	case "completed", "failed", "cancelled":
		return true
	}
	return false
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(lancacheTimestampLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
