package analytics

import "time"

// Topics this package publishes and consumes.
const (
	TopicTokenRenamed  = "token.renamed"
	TopicTokenResolved = "token.resolved"
)

// TokenRenamedEvent is emitted when an update retires an entity's token,
// forming the audit trail behind the redirect records.
type TokenRenamedEvent struct {
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entityId"`
	FromToken string    `json:"fromToken"`
	ToToken   string    `json:"toToken"`
	RenamedAt time.Time `json:"renamedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// TokenResolvedEvent is emitted for every public resolution attempt. The
// redirected outcomes show how much traffic still arrives on retired
// tokens, which is the operational signal for pruning dangling redirects.
type TokenResolvedEvent struct {
	Kind       string    `json:"kind"`
	Token      string    `json:"token"`
	Outcome    string    `json:"outcome"` // found | redirected | notFound
	Target     string    `json:"target,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}
