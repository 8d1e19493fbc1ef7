package diary

import (
	"context"
	"time"

	"dnevnik-backend/lib/restyutil"
	"dnevnik-backend/lib/scrapers/schoolsby"
)

type Config struct {
	AuthBaseUrl    string `json:"auth_base_url"`
	SchoolBaseUrl  string `json:"school_base_url"`
	QuarterId      int    `json:"quarter_id"`
	StartWeek      string `json:"start_week"`
	RequestDelayMs int    `json:"request_delay_ms"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Service scrapes a pupil's diary from the portal on demand. It holds
// no per-pupil state: every call builds its own portal client, so
// concurrent API requests run fully isolated from each other.
type Service struct {
	cfg Config
	// Optional sink for raw HTTP exchange dumps, wired through to every
	// portal client this service builds.
	Instrument restyutil.InstrumentOutput
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

func (s *Service) clientOptions() schoolsby.ClientOptions {
	return schoolsby.ClientOptions{
		AuthBaseUrl:      s.cfg.AuthBaseUrl,
		SchoolBaseUrl:    s.cfg.SchoolBaseUrl,
		QuarterId:        s.cfg.QuarterId,
		StartWeek:        s.cfg.StartWeek,
		RequestDelay:     time.Duration(s.cfg.RequestDelayMs) * time.Millisecond,
		Timeout:          time.Duration(s.cfg.TimeoutSeconds) * time.Second,
		InstrumentOutput: s.Instrument,
	}
}

// Login authenticates a pupil against the portal with a fresh client
// and cookie jar.
func (s *Service) Login(ctx context.Context, username, password string) (schoolsby.Session, error) {
	client, err := schoolsby.NewClient(s.clientOptions())
	if err != nil {
		return schoolsby.Session{}, err
	}
	return client.Login(ctx, username, password)
}

// Quarter scrapes the configured term using a previously harvested
// session cookie and returns the structured week/day/lesson hierarchy.
func (s *Service) Quarter(ctx context.Context, sessionId, pupilId string) ([]schoolsby.StructuredWeek, error) {
	client, err := schoolsby.NewSessionClient(s.clientOptions(), sessionId)
	if err != nil {
		return nil, err
	}
	return client.Quarter(ctx, pupilId)
}
