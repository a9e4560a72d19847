package discovery

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

type Action string

const (
	ActionLike      Action = "like"
	ActionPass      Action = "pass"
	ActionSuperLike Action = "super_like"
)

// IsPositive reports whether the action counts toward a match.
func (a Action) IsPositive() bool {
	return a == ActionLike || a == ActionSuperLike
}

// ParseAction accepts like, pass and super_like.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionLike, ActionPass, ActionSuperLike:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// Profile is a read-only user record owned by the profile service.
type Profile struct {
	ID          int64          `json:"id" db:"id"`
	Username    string         `json:"username" db:"username"`
	DisplayName string         `json:"display_name" db:"display_name"`
	Bio         string         `json:"bio" db:"bio"`
	AvatarURL   *string        `json:"avatar_url,omitempty" db:"avatar_url"`
	BirthDate   *string        `json:"birth_date,omitempty" db:"birth_date"`
	Gender      string         `json:"gender" db:"gender"`
	ProfileType string         `json:"profile_type" db:"profile_type"`
	Location    string         `json:"location" db:"location"`
	Latitude    *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64       `json:"longitude,omitempty" db:"longitude"`
	Interests   pq.StringArray `json:"interests" db:"interests"`

	IsVerified bool `json:"is_verified" db:"is_verified"`
	IsPremium  bool `json:"is_premium" db:"is_premium"`
	IsActive   bool `json:"is_active" db:"is_active"`

	FollowersCount int `json:"followers_count" db:"followers_count"`
	FollowingCount int `json:"following_count" db:"following_count"`
	PostsCount     int `json:"posts_count" db:"posts_count"`
	LikesReceived  int `json:"likes_received" db:"likes_received"`

	LastActiveAt *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// ViewerPreferences are the per-request discovery parameters.
type ViewerPreferences struct {
	Gender           string   `json:"gender" validate:"omitempty,max=30"`
	RelationshipType string   `json:"relationship_type" validate:"omitempty,max=30"`
	MinAge           int      `json:"min_age" validate:"gte=0,lte=150"`
	MaxAge           int      `json:"max_age" validate:"gte=0,lte=150,gtefield=MinAge"`
	MaxDistanceKm    float64  `json:"max_distance_km" validate:"gte=0"`
	Interests        []string `json:"interests" validate:"max=20,dive,min=1,max=50"`
	Query            string   `json:"query" validate:"max=100"`
	Location         string   `json:"location" validate:"max=100"`
	VerifiedOnly     bool     `json:"verified_only"`
	PremiumOnly      bool     `json:"premium_only"`
	IncludeSeen      bool     `json:"include_seen"`
	Page             int      `json:"page" validate:"gte=1"`
	PageSize         int      `json:"page_size" validate:"gte=1"`
}

// AnyValue disables the gender and relationship-type filters.
const AnyValue = "all"

// ScoreBreakdown lists the additive parts of a compatibility score.
type ScoreBreakdown struct {
	InterestOverlap     float64 `json:"interest_overlap"`
	CommonInterestBonus float64 `json:"common_interest_bonus"`
	DiversityBonus      float64 `json:"diversity_bonus"`
	BioBonus            float64 `json:"bio_bonus"`
	VerifiedBonus       float64 `json:"verified_bonus"`
	BaselineFloor       float64 `json:"baseline_floor"`
}

// Total is the unclamped sum of all parts.
func (b ScoreBreakdown) Total() float64 {
	return b.InterestOverlap + b.CommonInterestBonus + b.DiversityBonus +
		b.BioBonus + b.VerifiedBonus + b.BaselineFloor
}

// ScoredCandidate is a Profile annotated for one viewer. Built per request.
type ScoredCandidate struct {
	Profile

	Age                *int           `json:"age"`
	CommonInterests    []string       `json:"common_interests"`
	CompatibilityScore int            `json:"compatibility_score"`
	ScoreBreakdown     ScoreBreakdown `json:"score_breakdown"`
	IsOnline           bool           `json:"is_online"`

	// DistanceKm keeps full precision for ranking; clients see the rounded value.
	DistanceKm        *float64 `json:"-"`
	DisplayDistanceKm *int     `json:"distance_km"`
}

type Interaction struct {
	ID        int64     `json:"id" db:"id"`
	ActorID   int64     `json:"actor_id" db:"actor_id"`
	TargetID  int64     `json:"target_id" db:"target_id"`
	Action    Action    `json:"action" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Match always stores the smaller id in User1ID.
type Match struct {
	ID        int64     `json:"id" db:"id"`
	User1ID   int64     `json:"user1_id" db:"user1_id"`
	User2ID   int64     `json:"user2_id" db:"user2_id"`
	MatchedAt time.Time `json:"matched_at" db:"matched_at"`
}

// NewMatch builds a Match for the unordered pair {a, b}.
func NewMatch(a, b int64, at time.Time) *Match {
	if a > b {
		a, b = b, a
	}
	return &Match{User1ID: a, User2ID: b, MatchedAt: at}
}

// Other returns the participant that is not userID.
func (m *Match) Other(userID int64) int64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

type RecordResult struct {
	Matched bool   `json:"matched"`
	Match   *Match `json:"match,omitempty"`
}

type DiscoverResult struct {
	Results  []*ScoredCandidate `json:"results"`
	HasMore  bool               `json:"has_more"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
