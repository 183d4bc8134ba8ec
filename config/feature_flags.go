package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Predefined feature flag names.
const (
	// === Notification Features ===
	FeatureNotifyPaymentPending   = "notify.payment_pending"   // Secretary alert on new payment
	FeatureNotifyPaymentReceived  = "notify.payment_received"  // Admin alert on recorded payment
	FeatureNotifyPaymentConfirmed = "notify.payment_confirmed" // Creator alert on confirmation
	FeatureNotifyStatusChange     = "notify.status_change"     // Admin alert on status transitions
	FeatureNotifyNewStudent       = "notify.new_student"       // Admin alert on new students

	// === Caching Features ===
	FeatureCacheStatuses     = "cache.statuses"      // Redis-backed status catalog
	FeatureCacheUnreadCounts = "cache.unread_counts" // Redis-backed unread badges

	// === Experimental Features ===
	FeatureExperimentalDigest   = "experimental.daily_digest" // End-of-day summary
	FeatureExperimentalWebhooks = "experimental.webhooks"     // Outbound webhook delivery
)

// defaultFeatures declares every flag the back office knows about. The
// notification and caching flags ship enabled; experiments ship dark.
var defaultFeatures = []Feature{
	{Name: FeatureNotifyPaymentPending, Description: "Alert the secretariat when a payment awaits validation", Enabled: true, RolloutPercent: 100},
	{Name: FeatureNotifyPaymentReceived, Description: "Alert administrators when a payment is recorded", Enabled: true, RolloutPercent: 100},
	{Name: FeatureNotifyPaymentConfirmed, Description: "Tell the recording agent their payment was validated", Enabled: true, RolloutPercent: 100},
	{Name: FeatureNotifyStatusChange, Description: "Alert administrators on student status transitions", Enabled: true, RolloutPercent: 100},
	{Name: FeatureNotifyNewStudent, Description: "Alert administrators when a student file is opened", Enabled: true, RolloutPercent: 100},

	{Name: FeatureCacheStatuses, Description: "Serve the status catalog from Redis", Enabled: true, RolloutPercent: 100},
	{Name: FeatureCacheUnreadCounts, Description: "Serve unread notification badges from Redis", Enabled: true, RolloutPercent: 100},

	{Name: FeatureExperimentalDigest, Description: "End-of-day activity summary"},
	{Name: FeatureExperimentalWebhooks, Description: "Outbound webhook delivery"},
}

// Feature is one toggle with its targeting rules.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// RolloutPercent (0-100) buckets users by a stable hash, so partial
	// rollouts keep each user on one side.
	RolloutPercent int

	// TargetRoles restricts the feature to office roles. Empty means all.
	TargetRoles []string

	// Optional activation window.
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// activeAt reports whether now falls inside the activation window.
func (f *Feature) activeAt(now time.Time) bool {
	if f.EnabledFrom != nil && now.Before(*f.EnabledFrom) {
		return false
	}
	if f.EnabledUntil != nil && now.After(*f.EnabledUntil) {
		return false
	}
	return true
}

// appliesToRole reports whether the role passes targeting.
func (f *Feature) appliesToRole(role string) bool {
	if len(f.TargetRoles) == 0 || role == "" {
		return true
	}
	for _, r := range f.TargetRoles {
		if r == role {
			return true
		}
	}
	return false
}

// FeatureContext identifies who a feature is evaluated for.
type FeatureContext struct {
	UserID int64

	Role    string // office role (e.g., "agent", "secretary")
	IsAdmin bool
}

// FeatureFlags manages feature toggles for the back office. Supports
// gradual rollout per user, role targeting, and time-based activation, so
// notification or caching changes can be trialled on part of the team
// before everyone sees them.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Per-user overrides for testing and debugging; checked first.
	userOverrides map[int64]map[string]bool
}

// LoadFeatureFlags builds the flag set from the defaults, then applies
// FEATURE_* environment overrides.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature, len(defaultFeatures)),
		userOverrides: make(map[int64]map[string]bool),
	}

	for i := range defaultFeatures {
		f := defaultFeatures[i]
		applyEnvOverride(&f)
		ff.features[f.Name] = &f
	}
	return ff
}

// applyEnvOverride reads FEATURE_<NAME>, accepting a boolean or a rollout
// percentage. "notify.status_change" maps to FEATURE_NOTIFY_STATUS_CHANGE.
func applyEnvOverride(f *Feature) {
	key := "FEATURE_" + strings.ReplaceAll(strings.ToUpper(f.Name), ".", "_")
	val := os.Getenv(key)
	if val == "" {
		return
	}

	if b, err := strconv.ParseBool(val); err == nil {
		f.Enabled = b
		f.RolloutPercent = 0
		if b {
			f.RolloutPercent = 100
		}
		return
	}

	if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
		f.Enabled = p > 0
		f.RolloutPercent = p
	}
}

// IsEnabled evaluates a feature for ctx. A nil ctx answers for the system
// itself: overrides, admin bypass, role targeting and rollout bucketing
// are skipped, leaving only the on/off state and the time window.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	if ctx != nil && ctx.UserID != 0 {
		if enabled, ok := ff.userOverrides[ctx.UserID][featureName]; ok {
			return enabled
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admins see every feature, including dark experiments.
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	if !feature.Enabled || !feature.activeAt(time.Now()) {
		return false
	}

	if ctx != nil && !feature.appliesToRole(ctx.Role) {
		return false
	}

	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != 0 {
		return inRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}
	return feature.RolloutPercent > 0
}

// inRollout buckets user+feature into 0-99 with a stable hash and admits
// the buckets below percent.
func inRollout(userID int64, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(strconv.FormatInt(userID, 10)))
	return int(h.Sum32()%100) < percent
}

// SetUserOverride pins a feature on or off for one user.
func (ff *FeatureFlags) SetUserOverride(userID int64, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if ff.userOverrides[userID] == nil {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID int64) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates a feature's rollout live. Zero disables the
// feature, anything above zero enables it.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0
	return nil
}

// EnableFeature turns a feature on at full rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature turns a feature off completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a snapshot of every feature's configuration.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	out := make(map[string]*Feature, len(ff.features))
	for name, f := range ff.features {
		cp := *f
		out[name] = &cp
	}
	return out
}

// PaymentNotificationsEnabled reports whether any payment alert is on.
func (ff *FeatureFlags) PaymentNotificationsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureNotifyPaymentPending, ctx) ||
		ff.IsEnabled(FeatureNotifyPaymentReceived, ctx) ||
		ff.IsEnabled(FeatureNotifyPaymentConfirmed, ctx)
}

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError distinguishes flag administration failures.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
